package crmsvc

import (
	"reflect"
	"testing"
)

func TestNormalizeTags_TrimVaBoRong(t *testing.T) {
	got := NormalizeTags([]string{" vip ", "", "  ", "khach-moi", "\tlead "})
	want := []string{"vip", "khach-moi", "lead"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags phải trim và bỏ tag rỗng, got %v, want %v", got, want)
	}
}

func TestNormalizeTags_GiuThuTu(t *testing.T) {
	got := NormalizeTags([]string{"b", "a", "c"})
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags không được sắp xếp lại, got %v", got)
	}
}

func TestNormalizeTags_DauVaoRong(t *testing.T) {
	got := NormalizeTags(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Đầu vào nil phải ra slice rỗng, got %v", got)
	}
}

func TestSeedOwnerIds_ChiNguoiTao(t *testing.T) {
	got := SeedOwnerIds("creator", "")
	want := []string{"creator"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Không có user khớp thì chỉ có người tạo, got %v", got)
	}
}

func TestSeedOwnerIds_ThemUserKhop(t *testing.T) {
	got := SeedOwnerIds("creator", "matched")
	want := []string{"creator", "matched"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("User khớp số điện thoại phải được thêm sau người tạo, got %v", got)
	}
}

func TestSeedOwnerIds_KhongTrungNguoiTao(t *testing.T) {
	got := SeedOwnerIds("creator", "creator")
	want := []string{"creator"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("User khớp trùng người tạo không được thêm hai lần, got %v", got)
	}
}
