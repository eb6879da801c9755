// Package models - model khách hàng (Customer) thuộc domain crm.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer định nghĩa mô hình khách hàng.
// UserID là người tạo bản ghi, OwnerIds là danh sách người cùng sở hữu
// (luôn chứa người tạo ngay khi tạo). Cả hai lưu dạng ObjectID hex string
// để khớp với nội dung token phiên.
// LastActivity được chạm mỗi khi bản ghi hoặc dữ liệu con thay đổi, là khóa
// sắp xếp mặc định của mọi danh sách khách hàng.
type Customer struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       string             `json:"userId" bson:"userId"`
	OwnerIds     []string           `json:"ownerIds" bson:"ownerIds"`
	Name         string             `json:"name" bson:"name"`
	Phone        string             `json:"phone" bson:"phone"`
	Email        string             `json:"email,omitempty" bson:"email,omitempty"`
	AvatarURL    string             `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	Tags         []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Notes        string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt    string             `json:"createdAt" bson:"createdAt"`
	LastActivity string             `json:"lastActivity" bson:"lastActivity"`
}
