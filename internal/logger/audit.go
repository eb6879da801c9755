package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// AuditAction mô tả một hành động cần ghi audit (đăng nhập, thay đổi chủ sở hữu...)
type AuditAction struct {
	Action       string                 `json:"action"`        // Tên hành động (ví dụ: "otp_confirm", "owner_add")
	UserID       string                 `json:"user_id"`       // ID người dùng thực hiện
	ResourceID   string                 `json:"resource_id"`   // ID tài nguyên bị ảnh hưởng
	ResourceType string                 `json:"resource_type"` // Loại tài nguyên (ví dụ: "customer", "user")
	IP           string                 `json:"ip"`            // IP address
	Details      map[string]interface{} `json:"details"`       // Chi tiết bổ sung
	Timestamp    time.Time              `json:"timestamp"`     // Thời gian
}

// LogAction ghi một hành động audit từ trong handler
func LogAction(action string, resourceType string, resourceID string, c fiber.Ctx, details map[string]interface{}) {
	audit := AuditAction{
		Action:       action,
		ResourceID:   resourceID,
		ResourceType: resourceType,
		IP:           c.IP(),
		Details:      details,
		Timestamp:    time.Now(),
	}

	// Lấy user ID từ context nếu có
	if userID := c.Locals("userId"); userID != nil {
		if uid, ok := userID.(string); ok {
			audit.UserID = uid
		}
	}

	GetAuditLogger().WithFields(logrus.Fields{
		"action":        audit.Action,
		"user_id":       audit.UserID,
		"resource_id":   audit.ResourceID,
		"resource_type": audit.ResourceType,
		"ip":            audit.IP,
		"details":       audit.Details,
	}).Info("audit")
}

// WithRequest trả về entry đã gắn sẵn thông tin request để log lỗi có ngữ cảnh
func WithRequest(c fiber.Ctx) *logrus.Entry {
	return GetErrorLogger().WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})
}
