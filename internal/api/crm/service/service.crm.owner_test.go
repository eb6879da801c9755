package crmsvc

import (
	"errors"
	"reflect"
	"testing"

	"pocket_crm/internal/common"
)

func TestAppendOwner_ThemVaoCuoi(t *testing.T) {
	got, err := AppendOwner([]string{"a", "b"}, "c")
	if err != nil {
		t.Fatalf("AppendOwner trả về lỗi không mong muốn: %v", err)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Owner mới phải được thêm vào cuối, got %v", got)
	}
}

func TestAppendOwner_DaLaChuSoHuu(t *testing.T) {
	if _, err := AppendOwner([]string{"a", "b"}, "b"); !errors.Is(err, common.ErrAlreadyOwner) {
		t.Errorf("Thêm owner đã tồn tại phải trả về ErrAlreadyOwner, got %v", err)
	}
}

func TestRemoveOwnerID_GoThanhCong(t *testing.T) {
	got, err := RemoveOwnerID([]string{"a", "b", "c"}, "b")
	if err != nil {
		t.Fatalf("RemoveOwnerID trả về lỗi không mong muốn: %v", err)
	}
	want := []string{"a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Owner bị gỡ phải biến mất, thứ tự còn lại giữ nguyên, got %v", got)
	}
}

func TestRemoveOwnerID_KhongTonTai(t *testing.T) {
	if _, err := RemoveOwnerID([]string{"a", "b"}, "x"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Gỡ owner không tồn tại phải trả về ErrNotFound, got %v", err)
	}
}

func TestRemoveOwnerID_ChanOwnerCuoiCung(t *testing.T) {
	if _, err := RemoveOwnerID([]string{"a"}, "a"); !errors.Is(err, common.ErrLastOwnerRemoval) {
		t.Errorf("Gỡ owner cuối cùng phải bị chặn với ErrLastOwnerRemoval, got %v", err)
	}
}
