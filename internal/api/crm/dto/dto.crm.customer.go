package crmdto

// CreateCustomerInput đầu vào tạo khách hàng.
type CreateCustomerInput struct {
	Name  string   `json:"name" validate:"required"`
	Phone string   `json:"phone" validate:"required"`
	Email string   `json:"email" validate:"omitempty,email"`
	Tags  []string `json:"tags"`
	Notes string   `json:"notes"`
}

// UpdateCustomerInput đầu vào cập nhật khách hàng (partial, merge).
// Con trỏ phân biệt "không gửi" với "gửi giá trị rỗng".
type UpdateCustomerInput struct {
	Name  *string   `json:"name,omitempty"`
	Phone *string   `json:"phone,omitempty"`
	Email *string   `json:"email,omitempty" validate:"omitempty,email"`
	Tags  *[]string `json:"tags,omitempty"`
	Notes *string   `json:"notes,omitempty"`
}

// AddOwnerInput đầu vào thêm chủ sở hữu theo userId.
type AddOwnerInput struct {
	UserID string `json:"userId" validate:"required"`
}

// AssignByPhoneInput đầu vào thêm chủ sở hữu theo số điện thoại.
type AssignByPhoneInput struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// UploadAvatarInput đầu vào cập nhật ảnh đại diện từ một URI ảnh.
type UploadAvatarInput struct {
	ImageURI string `json:"imageUri" validate:"required"`
}
