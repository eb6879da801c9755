package utility

import (
	"strings"

	"pocket_crm/internal/common"
)

// phoneSeparators các ký tự trình bày được phép xuất hiện trong số điện thoại nhập vào
var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// NormalizePhone chuẩn hóa số điện thoại về dạng quốc tế:
// bỏ khoảng trắng/gạch/ngoặc, thêm mã quốc gia mặc định khi không có dấu +
// ở đầu. Trả về ErrInvalidPhoneFormat khi kết quả ngắn hơn 12 ký tự.
func NormalizePhone(raw string, defaultCountryCode string) (string, error) {
	normalized := phoneSeparators.Replace(strings.TrimSpace(raw))
	if normalized == "" {
		return "", common.ErrInvalidPhoneFormat
	}

	if !strings.HasPrefix(normalized, "+") {
		normalized = defaultCountryCode + normalized
	}

	// Sau dấu + phải toàn chữ số
	for _, r := range normalized[1:] {
		if r < '0' || r > '9' {
			return "", common.ErrInvalidPhoneFormat
		}
	}

	if len(normalized) < 12 {
		return "", common.ErrInvalidPhoneFormat
	}

	return normalized, nil
}
