// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User định nghĩa mô hình người dùng.
// PhoneNumber là định danh nghiệp vụ duy nhất (đã chuẩn hóa E.164).
// ExpoPushTokens chứa danh sách token push, mỗi thiết bị một token.
// Các mốc thời gian lưu dạng chuỗi ISO-8601 UTC.
type User struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PhoneNumber    string             `json:"phoneNumber" bson:"phoneNumber" index:"unique"`
	DisplayName    string             `json:"displayName,omitempty" bson:"displayName,omitempty"`
	Email          string             `json:"email,omitempty" bson:"email,omitempty"`
	ExpoPushTokens []string           `json:"expoPushTokens,omitempty" bson:"expoPushTokens,omitempty"`
	CreatedAt      string             `json:"createdAt" bson:"createdAt"`
	LastLogin      string             `json:"lastLogin" bson:"lastLogin"`
}
