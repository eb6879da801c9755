// Package crmsvc - service khách hàng (Customer).
package crmsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	authsvc "pocket_crm/internal/api/auth/service"
	basesvc "pocket_crm/internal/api/base/service"
	crmdto "pocket_crm/internal/api/crm/dto"
	models "pocket_crm/internal/api/crm/models"
	"pocket_crm/internal/common"
	"pocket_crm/internal/global"
	"pocket_crm/internal/utility"
)

// CustomerService là cấu trúc chứa các phương thức liên quan đến khách hàng
type CustomerService struct {
	*basesvc.BaseServiceMongoImpl[models.Customer]
	userService *authsvc.UserService
}

// NewCustomerService tạo mới CustomerService
func NewCustomerService() (*CustomerService, error) {
	customerCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Customers)
	if !exist {
		return nil, fmt.Errorf("failed to get customers collection: %v", common.ErrNotFound)
	}
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}

	return &CustomerService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Customer](customerCollection),
		userService:          userService,
	}, nil
}

// NormalizeTags chuẩn hóa danh sách tag: trim khoảng trắng, bỏ tag rỗng.
// Không sắp xếp lại, giữ nguyên thứ tự người dùng nhập.
func NormalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// SeedOwnerIds xác định danh sách chủ sở hữu ban đầu của khách hàng.
// Người tạo luôn đứng đầu; nếu số điện thoại khách hàng khớp với một user
// khác người tạo thì user đó được thêm ngay từ lúc tạo.
func SeedOwnerIds(creatorID string, matchedUserID string) []string {
	if matchedUserID != "" && matchedUserID != creatorID {
		return []string{creatorID, matchedUserID}
	}
	return []string{creatorID}
}

// matchUserByPhone tìm user có số điện thoại khớp với số của khách hàng.
// Số không chuẩn hóa được hoặc không có user khớp → trả về chuỗi rỗng,
// không coi là lỗi.
func (s *CustomerService) matchUserByPhone(ctx context.Context, rawPhone string) string {
	phone, err := utility.NormalizePhone(rawPhone, global.ServerConfig.DefaultCountryCode)
	if err != nil {
		return ""
	}
	user, err := s.userService.FindByPhone(ctx, phone)
	if err != nil {
		return ""
	}
	return user.ID.Hex()
}

// Create tạo khách hàng mới cho người dùng creatorID.
// Nếu số điện thoại khách hàng trùng với một user khác trong hệ thống,
// user đó được gán làm đồng sở hữu ngay lúc tạo.
func (s *CustomerService) Create(ctx context.Context, creatorID string, input *crmdto.CreateCustomerInput) (models.Customer, error) {
	now := utility.NowISO()
	matched := s.matchUserByPhone(ctx, input.Phone)

	customer := models.Customer{
		UserID:       creatorID,
		OwnerIds:     SeedOwnerIds(creatorID, matched),
		Name:         input.Name,
		Phone:        input.Phone,
		Email:        input.Email,
		Tags:         NormalizeTags(input.Tags),
		Notes:        input.Notes,
		CreatedAt:    now,
		LastActivity: now,
	}

	created, err := s.InsertOne(ctx, customer)
	if err != nil {
		return models.Customer{}, err
	}

	logrus.WithFields(logrus.Fields{
		"customerId": created.ID.Hex(),
		"ownerCount": len(created.OwnerIds),
	}).Info("CustomerService: Đã tạo khách hàng")
	return created, nil
}

// Update cập nhật khách hàng theo merge semantics: chỉ các trường được gửi
// mới thay đổi, lastActivity luôn được chạm kể cả khi đầu vào rỗng.
// Số điện thoại thay đổi và khớp với một user mới → user đó được thêm
// vào danh sách chủ sở hữu.
func (s *CustomerService) Update(ctx context.Context, id primitive.ObjectID, input *crmdto.UpdateCustomerInput) (models.Customer, error) {
	existing, err := s.FindOneById(ctx, id)
	if err != nil {
		return models.Customer{}, common.ErrCustomerNotFound
	}

	set := map[string]interface{}{
		"lastActivity": utility.NowISO(),
	}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Email != nil {
		set["email"] = *input.Email
	}
	if input.Tags != nil {
		set["tags"] = NormalizeTags(*input.Tags)
	}
	if input.Notes != nil {
		set["notes"] = *input.Notes
	}
	if input.Phone != nil && *input.Phone != existing.Phone {
		set["phone"] = *input.Phone
		// Số mới khớp với user chưa sở hữu → thêm làm đồng sở hữu
		if matched := s.matchUserByPhone(ctx, *input.Phone); matched != "" && !utility.Contains(existing.OwnerIds, matched) {
			set["ownerIds"] = append(existing.OwnerIds, matched)
		}
	}

	return s.UpdateById(ctx, id, &basesvc.UpdateData{Set: set})
}

// Delete xóa khách hàng. Dữ liệu con (engagement, attachment) được giữ
// nguyên, không cascade.
func (s *CustomerService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.DeleteById(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrCustomerNotFound
		}
		return err
	}
	return nil
}

// GetById lấy một khách hàng theo id
func (s *CustomerService) GetById(ctx context.Context, id primitive.ObjectID) (models.Customer, error) {
	customer, err := s.FindOneById(ctx, id)
	if err != nil {
		return models.Customer{}, common.ErrCustomerNotFound
	}
	return customer, nil
}

// TouchActivity chạm mốc lastActivity của khách hàng.
// Gọi mỗi khi dữ liệu con thay đổi để khách hàng nổi lên đầu danh sách.
func (s *CustomerService) TouchActivity(ctx context.Context, customerID string) {
	oid, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return
	}
	if _, err := s.UpdateById(ctx, oid, &basesvc.UpdateData{
		Set: map[string]interface{}{"lastActivity": utility.NowISO()},
	}); err != nil {
		logrus.WithFields(logrus.Fields{
			"customerId": customerID,
			"error":      err.Error(),
		}).Warn("CustomerService: Không chạm được lastActivity")
	}
}

// ListForUser trả về toàn bộ khách hàng mà user tạo hoặc đồng sở hữu,
// sắp xếp theo lastActivity giảm dần (bản mới hoạt động nhất lên đầu).
func (s *CustomerService) ListForUser(ctx context.Context, userID string) ([]models.Customer, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"userId": userID},
			{"ownerIds": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "lastActivity", Value: -1}})
	return s.Find(ctx, filter, opts)
}
