// Package models - model phiên xác thực OTP thuộc domain auth.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OtpChallenge định nghĩa một phiên xác thực OTP đang chờ xác nhận.
// CodeHash là bcrypt hash của mã 6 chữ số, không bao giờ lưu mã gốc.
// ExpiresAtTs phục vụ TTL index dọn phiên cũ, ExpiresAt là bản ISO cho client.
type OtpChallenge struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ChallengeID string             `json:"challengeId" bson:"challengeId" index:"unique"`
	PhoneNumber string             `json:"phoneNumber" bson:"phoneNumber"`
	CodeHash    string             `json:"-" bson:"codeHash"`
	Attempts    int                `json:"-" bson:"attempts"`
	Confirmed   bool               `json:"-" bson:"confirmed"`
	CreatedAt   string             `json:"createdAt" bson:"createdAt"`
	ExpiresAt   string             `json:"expiresAt" bson:"expiresAt"`
	ExpiresAtTs time.Time          `json:"-" bson:"expiresAtTs"`
}
