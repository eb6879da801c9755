package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK      = 200 // Thành công
	StatusCreated = 201 // Tạo mới thành công

	// Client Error Codes (4xx)
	StatusBadRequest      = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized    = 401 // Chưa xác thực
	StatusForbidden       = 403 // Không có quyền truy cập
	StatusNotFound        = 404 // Không tìm thấy tài nguyên
	StatusConflict        = 409 // Xung đột dữ liệu
	StatusTooManyRequests = 429 // Quá nhiều yêu cầu

	// Server Error Codes (5xx)
	StatusInternalServerError = 500 // Lỗi server
	StatusBadGateway          = 502 // Dịch vụ bên ngoài lỗi
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
)

// Response Messages
const (
	MsgSuccess = "Thao tác thành công"
	MsgCreated = "Tạo mới thành công"

	MsgBadRequest      = "Yêu cầu không hợp lệ"
	MsgUnauthorized    = "Vui lòng đăng nhập lại"
	MsgNotFound        = "Không tìm thấy tài nguyên"
	MsgConflict        = "Xung đột dữ liệu"
	MsgInternalError   = "Lỗi hệ thống"
	MsgValidationError = "Dữ liệu không hợp lệ"
	MsgDatabaseError   = "Lỗi tương tác với cơ sở dữ liệu"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: AUTH_001)
	Category    string // Phân loại lỗi (ví dụ: Authentication)
	SubCategory string // Phân loại con (ví dụ: Challenge)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Lỗi hệ thống nội bộ",
	}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Lỗi liên quan đến token phiên đăng nhập",
	}

	ErrCodeAuthChallenge = ErrorCode{
		Code:        "AUTH_002",
		Category:    "Authentication",
		SubCategory: "Challenge",
		Description: "Lỗi liên quan đến phiên xác thực OTP",
	}

	ErrCodeAuthIdentity = ErrorCode{
		Code:        "AUTH_003",
		Category:    "Authentication",
		SubCategory: "Identity",
		Description: "Chưa xác lập danh tính người dùng",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Lỗi dữ liệu đầu vào",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Lỗi định dạng dữ liệu",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Lỗi cơ sở dữ liệu chung",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Lỗi kết nối cơ sở dữ liệu",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Lỗi truy vấn dữ liệu",
	}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusinessState = ErrorCode{
		Code:        "BIZ_001",
		Category:    "Business",
		SubCategory: "State",
		Description: "Lỗi trạng thái nghiệp vụ",
	}

	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "Operation",
		Description: "Lỗi thao tác nghiệp vụ",
	}

	// Remote Service Errors (SRV_xxx) — lỗi từ blob store, push gateway, SMS
	ErrCodeRemoteService = ErrorCode{
		Code:        "SRV_001",
		Category:    "RemoteService",
		SubCategory: "General",
		Description: "Lỗi khi gọi dịch vụ bên ngoài",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi hiển thị cho người dùng
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Is kiểm tra xem error có phải là target error không (hỗ trợ errors.Is)
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if targetErr, ok := target.(*Error); ok {
		return e.Code.Code == targetErr.Code.Code && e.Message == targetErr.Message
	}
	return false
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Custom errors — phân loại theo InvalidInput / NotAuthenticated / NotFound /
// Conflict / RemoteServiceFailure; message luôn là thông báo hành động được
// cho người dùng, không phải lỗi transport thô.
var (
	// Authentication
	ErrNotAuthenticated = NewError(ErrCodeAuthIdentity, "Vui lòng đăng nhập lại", StatusUnauthorized, nil)
	ErrTokenExpired     = NewError(ErrCodeAuthToken, "Phiên đăng nhập đã hết hạn", StatusUnauthorized, nil)
	ErrTokenInvalid     = NewError(ErrCodeAuthToken, "Token không hợp lệ", StatusUnauthorized, nil)
	ErrTokenMissing     = NewError(ErrCodeAuthToken, "Thiếu token xác thực", StatusUnauthorized, nil)
	ErrInvalidOtpCode   = NewError(ErrCodeAuthChallenge, "Mã xác thực không đúng hoặc đã hết hạn", StatusUnauthorized, nil)

	// Validation (bắt trước khi gọi dịch vụ bên ngoài)
	ErrInvalidInput       = NewError(ErrCodeValidationInput, "Dữ liệu đầu vào không hợp lệ", StatusBadRequest, nil)
	ErrInvalidPhoneFormat = NewError(ErrCodeValidationInput, "Số điện thoại không đúng định dạng", StatusBadRequest, nil)
	ErrInvalidFormat      = NewError(ErrCodeValidationFormat, "Định dạng dữ liệu không hợp lệ", StatusBadRequest, nil)
	ErrRequiredField      = NewError(ErrCodeValidationInput, "Thiếu thông tin bắt buộc", StatusBadRequest, nil)
	ErrEmptyFile          = NewError(ErrCodeValidationInput, "File rỗng, vui lòng chọn file khác", StatusBadRequest, nil)
	ErrFileTooLarge       = NewError(ErrCodeValidationInput, "File quá lớn, giới hạn 10MB", StatusBadRequest, nil)
	ErrAvatarTooLarge     = NewError(ErrCodeValidationInput, "Ảnh đại diện quá lớn, giới hạn 5MB", StatusBadRequest, nil)
	ErrInvalidImageSource = NewError(ErrCodeValidationInput, "Nguồn ảnh không hợp lệ", StatusBadRequest, nil)

	// Not found
	ErrNotFound         = NewError(ErrCodeDatabaseQuery, "Không tìm thấy dữ liệu", StatusNotFound, nil)
	ErrCustomerNotFound = NewError(ErrCodeBusinessState, "Không tìm thấy khách hàng", StatusNotFound, nil)
	ErrUserNotFound     = NewError(ErrCodeBusinessState, "Không tìm thấy người dùng", StatusNotFound, nil)
	ErrNoMatchingUser   = NewError(ErrCodeBusinessState, "Không có người dùng nào khớp với số điện thoại này", StatusNotFound, nil)

	// Conflict
	ErrDuplicate        = NewError(ErrCodeDatabaseQuery, "Dữ liệu đã tồn tại", StatusConflict, nil)
	ErrAlreadyOwner     = NewError(ErrCodeBusinessState, "Người dùng đã là chủ sở hữu của khách hàng này", StatusConflict, nil)
	ErrLastOwnerRemoval = NewError(ErrCodeBusinessState, "Không thể gỡ chủ sở hữu cuối cùng", StatusConflict, nil)

	// Remote service
	ErrChallengeDispatch = NewError(ErrCodeRemoteService, "Không gửi được mã xác thực, vui lòng thử lại sau", StatusBadGateway, nil)
	ErrBlobUpload        = NewError(ErrCodeRemoteService, "Không tải được file lên, vui lòng thử lại sau", StatusBadGateway, nil)
	ErrConnection        = NewError(ErrCodeDatabaseConnection, "Lỗi kết nối cơ sở dữ liệu", StatusServiceUnavailable, nil)
)

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống.
// Dịch subcode của driver sang taxonomy ở biên repository để các layer trên
// không bao giờ phải đọc lỗi vendor-specific.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// ErrNotFound đã thuộc taxonomy, không convert lại
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	// Duplicate key
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}

	// Lỗi mạng / timeout
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return ErrConnection
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch {
		case cmdErr.Code >= 100 && cmdErr.Code < 200:
			return ErrConnection
		default:
			return NewError(ErrCodeDatabaseQuery, MsgDatabaseError, StatusInternalServerError, cmdErr)
		}
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		return NewError(ErrCodeDatabaseQuery, MsgDatabaseError, StatusInternalServerError, writeErr)
	}

	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err)
}
