// Package authsvc - service xác thực danh tính qua OTP (Identity Gate).
package authsvc

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	authdto "pocket_crm/internal/api/auth/dto"
	models "pocket_crm/internal/api/auth/models"
	basesvc "pocket_crm/internal/api/base/service"
	"pocket_crm/internal/api/middleware"
	"pocket_crm/internal/common"
	"pocket_crm/internal/global"
	"pocket_crm/internal/utility"
)

// Giới hạn số lần nhập sai mã trên một phiên xác thực
const maxOtpAttempts = 5

// Thời gian sống của token phiên đăng nhập
const sessionTokenTTL = 30 * 24 * time.Hour

// IdentityService xử lý luồng đăng nhập bằng OTP: phát hành phiên xác thực,
// gửi mã qua SMS, xác nhận mã và cấp token phiên.
type IdentityService struct {
	challenges basesvc.BaseServiceMongo[models.OtpChallenge]
	users      *UserService
	sms        SmsSender
}

// NewIdentityService tạo mới IdentityService.
// SmsSender được inject để test không cần Twilio thật.
func NewIdentityService(sms SmsSender) (*IdentityService, error) {
	challengeCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.OtpChallenges)
	if !exist {
		return nil, fmt.Errorf("failed to get otp_challenges collection: %v", common.ErrNotFound)
	}
	userService, err := NewUserService()
	if err != nil {
		return nil, err
	}

	return &IdentityService{
		challenges: basesvc.NewBaseServiceMongo[models.OtpChallenge](challengeCollection),
		users:      userService,
		sms:        sms,
	}, nil
}

// generateOtpCode sinh mã 6 chữ số bằng nguồn ngẫu nhiên mật mã học
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestChallenge chuẩn hóa số điện thoại, phát hành phiên xác thực OTP và
// gửi mã qua SMS. Mã chỉ lưu dưới dạng bcrypt hash.
// Lỗi gửi SMS → phiên bị hủy, trả về RemoteServiceFailure, không cấp phiên.
func (s *IdentityService) RequestChallenge(ctx context.Context, input *authdto.RequestOtpInput) (*authdto.RequestOtpResult, error) {
	phone, err := utility.NormalizePhone(input.PhoneNumber, global.ServerConfig.DefaultCountryCode)
	if err != nil {
		return nil, err
	}

	code, err := generateOtpCode()
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(time.Duration(global.ServerConfig.OtpCodeTTLMinutes) * time.Minute)
	challenge := models.OtpChallenge{
		ChallengeID: uuid.New().String(),
		PhoneNumber: phone,
		CodeHash:    string(codeHash),
		Attempts:    0,
		Confirmed:   false,
		CreatedAt:   now.Format(time.RFC3339),
		ExpiresAt:   expiresAt.Format(time.RFC3339),
		ExpiresAtTs: expiresAt,
	}

	created, err := s.challenges.InsertOne(ctx, challenge)
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Ma xac thuc cua ban la %s. Ma het han sau %d phut.", code, global.ServerConfig.OtpCodeTTLMinutes)
	if err := s.sms.Send(ctx, phone, body); err != nil {
		// Không gửi được mã thì phiên vô dụng, dọn luôn
		if delErr := s.challenges.DeleteById(ctx, created.ID); delErr != nil {
			logrus.WithError(delErr).Warn("RequestChallenge: Không dọn được phiên OTP sau lỗi gửi SMS")
		}
		return nil, common.ErrChallengeDispatch
	}

	return &authdto.RequestOtpResult{
		ChallengeID: created.ChallengeID,
		ExpiresAt:   created.ExpiresAt,
	}, nil
}

// ConfirmChallenge xác nhận mã OTP cho một phiên xác thực.
// Mã đúng và phiên còn hạn → tạo hoặc cập nhật user theo số điện thoại và
// cấp token phiên đăng nhập.
func (s *IdentityService) ConfirmChallenge(ctx context.Context, input *authdto.ConfirmOtpInput) (*authdto.SessionResult, error) {
	challenge, err := s.challenges.FindOne(ctx, bson.M{"challengeId": input.ChallengeID}, nil)
	if err != nil {
		return nil, common.ErrInvalidOtpCode
	}

	if challenge.Confirmed {
		return nil, common.ErrInvalidOtpCode
	}
	if time.Now().UTC().After(challenge.ExpiresAtTs) {
		return nil, common.ErrInvalidOtpCode
	}
	if challenge.Attempts >= maxOtpAttempts {
		return nil, common.ErrInvalidOtpCode
	}

	if err := bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(input.Code)); err != nil {
		if _, updErr := s.challenges.UpdateById(ctx, challenge.ID, &basesvc.UpdateData{
			Set: map[string]interface{}{"attempts": challenge.Attempts + 1},
		}); updErr != nil {
			logrus.WithError(updErr).Warn("ConfirmChallenge: Không cập nhật được số lần thử")
		}
		return nil, common.ErrInvalidOtpCode
	}

	// Cấp phiên trước rồi mới tiêu mã. Thứ tự ngược lại làm mã một lần
	// bị đốt khi upsert user lỗi tạm thời, user phải xin mã mới oan uổng.
	session, err := s.establishSession(ctx, challenge.PhoneNumber)
	if err != nil {
		return nil, err
	}

	// Đánh dấu phiên đã dùng để chặn replay. Lỗi đánh dấu không hủy phiên
	// đăng nhập vừa cấp; challenge còn sót sẽ hết hạn theo TTL.
	if _, err := s.challenges.UpdateById(ctx, challenge.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{"confirmed": true},
	}); err != nil {
		logrus.WithError(err).Warn("ConfirmChallenge: Không đánh dấu được phiên đã dùng")
	}

	return session, nil
}

// DevLogin bỏ qua bước SMS, chỉ dùng trong môi trường phát triển.
// Bị từ chối khi DEV_LOGIN_ENABLED=false hoặc đang chạy production.
func (s *IdentityService) DevLogin(ctx context.Context, input *authdto.DevLoginInput) (*authdto.SessionResult, error) {
	if !global.ServerConfig.DevLoginEnabled {
		return nil, common.NewError(common.ErrCodeAuthIdentity, "Đăng nhập phát triển không được bật", common.StatusForbidden, nil)
	}

	phone, err := utility.NormalizePhone(input.PhoneNumber, global.ServerConfig.DefaultCountryCode)
	if err != nil {
		return nil, err
	}
	return s.establishSession(ctx, phone)
}

// establishSession tạo hoặc cập nhật user theo số điện thoại và cấp token.
// User mới: ghi createdAt + lastLogin; user cũ: chỉ chạm lastLogin, giữ
// nguyên hồ sơ hiện có.
func (s *IdentityService) establishSession(ctx context.Context, phone string) (*authdto.SessionResult, error) {
	now := utility.NowISO()
	user, err := s.users.Upsert(ctx, bson.M{"phoneNumber": phone}, &basesvc.UpdateData{
		Set: map[string]interface{}{"lastLogin": now},
		SetOnInsert: map[string]interface{}{
			"phoneNumber": phone,
			"createdAt":   now,
		},
	})
	if err != nil {
		return nil, err
	}

	token, err := s.IssueSessionToken(user)
	if err != nil {
		return nil, err
	}

	return &authdto.SessionResult{
		Token:       token,
		UserID:      user.ID.Hex(),
		PhoneNumber: user.PhoneNumber,
		IsNewUser:   user.CreatedAt == now,
	}, nil
}

// IssueSessionToken ký token phiên đăng nhập cho user
func (s *IdentityService) IssueSessionToken(user models.User) (string, error) {
	now := time.Now()
	claims := middleware.SessionClaims{
		UserID:      user.ID.Hex(),
		PhoneNumber: user.PhoneNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(global.ServerConfig.JwtSecret))
	if err != nil {
		return "", common.NewError(common.ErrCodeAuthToken, common.MsgInternalError, common.StatusInternalServerError, err)
	}
	return signed, nil
}
