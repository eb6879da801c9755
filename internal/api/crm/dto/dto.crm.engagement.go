package crmdto

// CreateEngagementInput đầu vào tạo tương tác cho khách hàng.
type CreateEngagementInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,engagement_status"`
}

// UpdateEngagementInput đầu vào cập nhật tương tác (partial, merge).
type UpdateEngagementInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,engagement_status"`
}
