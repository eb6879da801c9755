package authsvc

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"pocket_crm/config"
	authdto "pocket_crm/internal/api/auth/dto"
	models "pocket_crm/internal/api/auth/models"
	basesvc "pocket_crm/internal/api/base/service"
	"pocket_crm/internal/common"
	"pocket_crm/internal/global"
)

// stubChallengeStore giữ một phiên OTP cố định và đếm số lần phiên bị
// đánh dấu đã dùng
type stubChallengeStore struct {
	basesvc.BaseServiceMongo[models.OtpChallenge]
	challenge      models.OtpChallenge
	confirmedMarks int
}

func (s *stubChallengeStore) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (models.OtpChallenge, error) {
	return s.challenge, nil
}

func (s *stubChallengeStore) UpdateById(ctx context.Context, id primitive.ObjectID, update interface{}) (models.OtpChallenge, error) {
	if data, ok := update.(*basesvc.UpdateData); ok {
		if confirmed, ok := data.Set["confirmed"].(bool); ok && confirmed {
			s.confirmedMarks++
		}
	}
	return s.challenge, nil
}

// stubUserStore giả lập kho user, có thể ép Upsert lỗi
type stubUserStore struct {
	basesvc.BaseServiceMongo[models.User]
	failUpsert bool
	user       models.User
}

func (s *stubUserStore) Upsert(ctx context.Context, filter interface{}, update interface{}) (models.User, error) {
	if s.failUpsert {
		return models.User{}, common.ErrConnection
	}
	return s.user, nil
}

func newTestChallenge(t *testing.T, code string) models.OtpChallenge {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Không hash được mã test: %v", err)
	}
	return models.OtpChallenge{
		ID:          primitive.NewObjectID(),
		ChallengeID: "phien-test",
		PhoneNumber: "+84912345678",
		CodeHash:    string(hash),
		ExpiresAtTs: time.Now().Add(time.Minute),
	}
}

func TestConfirmChallenge_KhongTieuMaKhiUpsertUserLoi(t *testing.T) {
	challenges := &stubChallengeStore{challenge: newTestChallenge(t, "123456")}
	svc := &IdentityService{
		challenges: challenges,
		users:      &UserService{BaseServiceMongo: &stubUserStore{failUpsert: true}},
	}

	_, err := svc.ConfirmChallenge(context.Background(), &authdto.ConfirmOtpInput{
		ChallengeID: "phien-test",
		Code:        "123456",
	})
	if err == nil {
		t.Fatal("Upsert user lỗi thì ConfirmChallenge phải trả về lỗi")
	}
	if challenges.confirmedMarks != 0 {
		t.Errorf("Mã một lần không được bị tiêu khi phiên đăng nhập chưa cấp được, bị đánh dấu %d lần", challenges.confirmedMarks)
	}
}

func TestConfirmChallenge_TieuMaSauKhiCapPhien(t *testing.T) {
	prevConfig := global.ServerConfig
	global.ServerConfig = &config.Configuration{JwtSecret: "bi-mat-test"}
	defer func() { global.ServerConfig = prevConfig }()

	challenges := &stubChallengeStore{challenge: newTestChallenge(t, "123456")}
	svc := &IdentityService{
		challenges: challenges,
		users: &UserService{BaseServiceMongo: &stubUserStore{
			user: models.User{ID: primitive.NewObjectID(), PhoneNumber: "+84912345678"},
		}},
	}

	result, err := svc.ConfirmChallenge(context.Background(), &authdto.ConfirmOtpInput{
		ChallengeID: "phien-test",
		Code:        "123456",
	})
	if err != nil {
		t.Fatalf("Mã đúng và phiên còn hạn phải cấp được phiên đăng nhập, got %v", err)
	}
	if result.Token == "" {
		t.Error("Phiên đăng nhập phải kèm token")
	}
	if challenges.confirmedMarks != 1 {
		t.Errorf("Mã phải bị tiêu đúng một lần sau khi cấp phiên, got %d", challenges.confirmedMarks)
	}
}

func TestGenerateOtpCode_DungSauChuSo(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateOtpCode()
		if err != nil {
			t.Fatalf("generateOtpCode trả về lỗi: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("Mã OTP phải đúng 6 ký tự, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("Mã OTP chỉ chứa chữ số, got %q", code)
			}
		}
	}
}

func TestGenerateOtpCode_KhongLapLaiNgay(t *testing.T) {
	// Xác suất 50 mã liên tiếp trùng hết là thực tế bằng không;
	// test bắt lỗi nguồn ngẫu nhiên bị hỏng trả về hằng số
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateOtpCode()
		if err != nil {
			t.Fatalf("generateOtpCode trả về lỗi: %v", err)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("50 mã sinh ra đều giống nhau, nguồn ngẫu nhiên có vấn đề")
	}
}
