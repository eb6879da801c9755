// Package models - model file đính kèm (Attachment) thuộc domain crm.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment định nghĩa metadata của một file đính kèm khách hàng.
// File thật nằm trên blob store, URL là link tải công khai có token.
type Attachment struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CustomerID string             `json:"customerId" bson:"customerId"`
	Name       string             `json:"name" bson:"name"`
	URL        string             `json:"url" bson:"url"`
	Type       string             `json:"type" bson:"type"`
	Size       int64              `json:"size" bson:"size"`
	UploadedAt string             `json:"uploadedAt" bson:"uploadedAt"`
}
