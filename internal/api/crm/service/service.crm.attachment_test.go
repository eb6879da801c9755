package crmsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pocket_crm/internal/common"
)

func TestValidateAttachmentUpload_FileRong(t *testing.T) {
	if err := ValidateAttachmentUpload(nil); !errors.Is(err, common.ErrEmptyFile) {
		t.Errorf("File rỗng phải bị chặn với ErrEmptyFile, got %v", err)
	}
}

func TestValidateAttachmentUpload_QuaGioiHan(t *testing.T) {
	data := make([]byte, MaxAttachmentSize+1)
	if err := ValidateAttachmentUpload(data); !errors.Is(err, common.ErrFileTooLarge) {
		t.Errorf("File quá 10MB phải bị chặn với ErrFileTooLarge, got %v", err)
	}
}

func TestValidateAttachmentUpload_DungGioiHan(t *testing.T) {
	data := make([]byte, MaxAttachmentSize)
	if err := ValidateAttachmentUpload(data); err != nil {
		t.Errorf("File đúng 10MB phải được chấp nhận, got %v", err)
	}
}

func TestValidateAvatarUpload_NguonKhongHopLe(t *testing.T) {
	if err := ValidateAvatarUpload("ftp://host/anh.jpg", []byte("x")); !errors.Is(err, common.ErrInvalidImageSource) {
		t.Errorf("Scheme lạ phải bị chặn với ErrInvalidImageSource, got %v", err)
	}
	if err := ValidateAvatarUpload("anh.jpg", []byte("x")); !errors.Is(err, common.ErrInvalidImageSource) {
		t.Errorf("URI không có scheme phải bị chặn, got %v", err)
	}
}

func TestValidateAvatarUpload_NguonHopLe(t *testing.T) {
	for _, uri := range []string{"file:///tmp/a.jpg", "content://media/1", "http://x/a.jpg", "https://x/a.jpg"} {
		if err := ValidateAvatarUpload(uri, []byte("x")); err != nil {
			t.Errorf("URI %q phải được chấp nhận, got %v", uri, err)
		}
	}
}

func TestValidateAvatarUpload_QuaGioiHan(t *testing.T) {
	data := make([]byte, MaxAvatarSize+1)
	if err := ValidateAvatarUpload("file:///tmp/a.jpg", data); !errors.Is(err, common.ErrAvatarTooLarge) {
		t.Errorf("Ảnh quá 5MB phải bị chặn với ErrAvatarTooLarge, got %v", err)
	}
}

func TestUploadAvatar_ChanKhiDanhTinhChuaSanSang(t *testing.T) {
	// Đường avatar phải qua cùng waiter với đường file đính kèm
	calls := 0
	s := &AttachmentService{
		waiter: &PollingIdentityWaiter{
			Exists: func(ctx context.Context, userID string) (bool, error) {
				calls++
				return false, nil
			},
			Interval:    time.Millisecond,
			MaxAttempts: 2,
		},
	}

	_, err := s.UploadAvatar(context.Background(), "u1", primitive.NewObjectID(), "file:///tmp/a.jpg", []byte("x"))
	if !errors.Is(err, common.ErrNotAuthenticated) {
		t.Fatalf("Danh tính chưa sẵn sàng phải chặn upload avatar với ErrNotAuthenticated, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Waiter phải được poll đủ số lượt trước khi bỏ cuộc, got %d lần", calls)
	}
}

func TestPollingIdentityWaiter_ThanhCongNgay(t *testing.T) {
	calls := 0
	w := &PollingIdentityWaiter{
		Exists: func(ctx context.Context, userID string) (bool, error) {
			calls++
			return true, nil
		},
		Interval:    time.Millisecond,
		MaxAttempts: 3,
	}
	if err := w.WaitForIdentity(context.Background(), "u1"); err != nil {
		t.Fatalf("Danh tính có sẵn phải pass ngay, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Phải dừng poll ngay lần đầu thành công, got %d lần", calls)
	}
}

func TestPollingIdentityWaiter_ThanhCongSauVaiLan(t *testing.T) {
	calls := 0
	w := &PollingIdentityWaiter{
		Exists: func(ctx context.Context, userID string) (bool, error) {
			calls++
			return calls >= 3, nil
		},
		Interval:    time.Millisecond,
		MaxAttempts: 5,
	}
	if err := w.WaitForIdentity(context.Background(), "u1"); err != nil {
		t.Fatalf("Danh tính xuất hiện trong giới hạn poll phải pass, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Kỳ vọng 3 lần poll, got %d", calls)
	}
}

func TestPollingIdentityWaiter_HetLuot(t *testing.T) {
	w := &PollingIdentityWaiter{
		Exists: func(ctx context.Context, userID string) (bool, error) {
			return false, nil
		},
		Interval:    time.Millisecond,
		MaxAttempts: 3,
	}
	if err := w.WaitForIdentity(context.Background(), "u1"); !errors.Is(err, common.ErrNotAuthenticated) {
		t.Errorf("Hết lượt poll phải trả về ErrNotAuthenticated, got %v", err)
	}
}

func TestPollingIdentityWaiter_ContextHuy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &PollingIdentityWaiter{
		Exists: func(ctx context.Context, userID string) (bool, error) {
			return false, nil
		},
		Interval:    time.Minute,
		MaxAttempts: 10,
	}
	start := time.Now()
	err := w.WaitForIdentity(ctx, "u1")
	if !errors.Is(err, common.ErrNotAuthenticated) {
		t.Errorf("Context bị hủy phải trả về ErrNotAuthenticated, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Context bị hủy phải thoát ngay, không chờ hết interval")
	}
}
