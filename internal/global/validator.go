package global

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// phonePattern khớp số điện thoại đã chuẩn hóa: dấu + theo sau là 11+ chữ số
var phonePattern = regexp.MustCompile(`^\+[0-9]{11,14}$`)

// engagementStatuses các trạng thái engagement hợp lệ
var engagementStatuses = map[string]bool{
	"open":        true,
	"in_progress": true,
	"won":         true,
	"lost":        true,
}

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("phone_normalized", validatePhoneNormalized)
	_ = Validate.RegisterValidation("engagement_status", validateEngagementStatus)
}

// validatePhoneNormalized kiểm tra số điện thoại đã ở dạng chuẩn hóa (+<mã quốc gia><số>)
func validatePhoneNormalized(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // optional field; required kiểm tra riêng
	}
	return phonePattern.MatchString(value)
}

// validateEngagementStatus kiểm tra status thuộc tập {open, in_progress, won, lost}
func validateEngagementStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return engagementStatuses[value]
}
