package authsvc

import (
	"testing"

	models "pocket_crm/internal/api/auth/models"
)

func TestDisplayLabel_UuTienDisplayName(t *testing.T) {
	user := models.User{DisplayName: "An", Email: "an@example.com"}
	if got := DisplayLabel(user); got != "An" {
		t.Errorf("displayName phải được ưu tiên, got %q", got)
	}
}

func TestDisplayLabel_FallbackEmail(t *testing.T) {
	user := models.User{Email: "an@example.com"}
	if got := DisplayLabel(user); got != "an@example.com" {
		t.Errorf("Không có displayName thì dùng email, got %q", got)
	}
}

func TestDisplayLabel_FallbackNhanChung(t *testing.T) {
	user := models.User{PhoneNumber: "+84912345678"}
	if got := DisplayLabel(user); got != "Một người dùng" {
		t.Errorf("Không có displayName lẫn email thì dùng nhãn chung, got %q", got)
	}
}
