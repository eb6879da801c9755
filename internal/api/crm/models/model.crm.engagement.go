// Package models - model tương tác (Engagement) thuộc domain crm.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái hợp lệ của một engagement
const (
	EngagementStatusOpen       = "open"
	EngagementStatusInProgress = "in_progress"
	EngagementStatusWon        = "won"
	EngagementStatusLost       = "lost"
)

// IsValidEngagementStatus kiểm tra status có thuộc tập hợp lệ không
func IsValidEngagementStatus(status string) bool {
	switch status {
	case EngagementStatusOpen, EngagementStatusInProgress, EngagementStatusWon, EngagementStatusLost:
		return true
	}
	return false
}

// Engagement định nghĩa một tương tác kinh doanh gắn với khách hàng.
// CustomerID là ObjectID hex của khách hàng cha. Không có ràng buộc
// chuyển trạng thái, status đi tự do giữa các giá trị hợp lệ.
type Engagement struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CustomerID  string             `json:"customerId" bson:"customerId"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   string             `json:"createdAt" bson:"createdAt"`
	LastUpdated string             `json:"lastUpdated" bson:"lastUpdated"`
}
