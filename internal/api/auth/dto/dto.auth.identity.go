package authdto

// RequestOtpInput đầu vào yêu cầu gửi mã OTP.
type RequestOtpInput struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// RequestOtpResult kết quả yêu cầu OTP, client giữ challengeId để xác nhận.
type RequestOtpResult struct {
	ChallengeID string `json:"challengeId"`
	ExpiresAt   string `json:"expiresAt"`
}

// ConfirmOtpInput đầu vào xác nhận mã OTP.
type ConfirmOtpInput struct {
	ChallengeID string `json:"challengeId" validate:"required"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

// SessionResult kết quả đăng nhập thành công.
type SessionResult struct {
	Token       string `json:"token"`
	UserID      string `json:"userId"`
	PhoneNumber string `json:"phoneNumber"`
	IsNewUser   bool   `json:"isNewUser"`
}

// DevLoginInput đầu vào đăng nhập phát triển, bỏ qua bước SMS.
// Chỉ hoạt động khi DEV_LOGIN_ENABLED=true và không phải môi trường production.
type DevLoginInput struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// RegisterPushTokenInput đầu vào đăng ký token push của thiết bị.
type RegisterPushTokenInput struct {
	Token string `json:"token" validate:"required"`
}

// UpdateProfileInput đầu vào cập nhật hồ sơ người dùng.
type UpdateProfileInput struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email" validate:"omitempty,email"`
}
