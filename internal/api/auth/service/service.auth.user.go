// Package authsvc - service người dùng (User).
package authsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "pocket_crm/internal/api/auth/dto"
	models "pocket_crm/internal/api/auth/models"
	basesvc "pocket_crm/internal/api/base/service"
	"pocket_crm/internal/common"
	"pocket_crm/internal/global"
	"pocket_crm/internal/utility"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	basesvc.BaseServiceMongo[models.User]
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}

	return &UserService{
		BaseServiceMongo: basesvc.NewBaseServiceMongo[models.User](userCollection),
	}, nil
}

// FindByPhone tìm user theo số điện thoại đã chuẩn hóa
func (s *UserService) FindByPhone(ctx context.Context, phone string) (models.User, error) {
	return s.FindOne(ctx, bson.M{"phoneNumber": phone}, nil)
}

// AddPushToken đăng ký token push cho user. Token trùng không bị thêm lại
// ($addToSet), mỗi lần đăng ký đều chạm mốc lastTokenUpdate.
func (s *UserService) AddPushToken(ctx context.Context, userID primitive.ObjectID, token string) (models.User, error) {
	return s.UpdateById(ctx, userID, &basesvc.UpdateData{
		AddToSet: map[string]interface{}{"expoPushTokens": token},
		Set:      map[string]interface{}{"lastTokenUpdate": utility.NowISO()},
	})
}

// UpdateProfile cập nhật hồ sơ người dùng (chỉ các trường có giá trị)
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input *authdto.UpdateProfileInput) (models.User, error) {
	set := make(map[string]interface{})
	if input.DisplayName != "" {
		set["displayName"] = input.DisplayName
	}
	if input.Email != "" {
		set["email"] = input.Email
	}
	if len(set) == 0 {
		return s.FindOneById(ctx, userID)
	}
	return s.UpdateById(ctx, userID, &basesvc.UpdateData{Set: set})
}

// TokensOf gom toàn bộ token push của một danh sách user.
// User không tồn tại hoặc không có token thì bỏ qua, không coi là lỗi.
func (s *UserService) TokensOf(ctx context.Context, userIDs []string) []string {
	tokens := make([]string, 0)
	for _, id := range userIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		user, err := s.FindOneById(ctx, oid)
		if err != nil {
			continue
		}
		tokens = append(tokens, user.ExpoPushTokens...)
	}
	return utility.Unique(tokens)
}

// DisplayLabel trả về nhãn hiển thị của user: displayName → email → nhãn chung.
// Dùng khi soạn nội dung thông báo về một người dùng.
func DisplayLabel(user models.User) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	if user.Email != "" {
		return user.Email
	}
	return "Một người dùng"
}

// DisplayLabelOf tra nhãn hiển thị của user theo id hex.
// Không tìm thấy user → trả về nhãn chung thay vì lỗi.
func (s *UserService) DisplayLabelOf(ctx context.Context, userID string) string {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "Một người dùng"
	}
	user, err := s.FindOneById(ctx, oid)
	if err != nil {
		return "Một người dùng"
	}
	return DisplayLabel(user)
}
