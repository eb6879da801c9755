// Package crmsvc - quản lý chủ sở hữu (owner) của khách hàng.
package crmsvc

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "pocket_crm/internal/api/base/service"
	models "pocket_crm/internal/api/crm/models"
	"pocket_crm/internal/common"
	"pocket_crm/internal/global"
	"pocket_crm/internal/utility"
)

// OwnerNotifier nhận sự kiện thêm chủ sở hữu. Best-effort như Notifier.
type OwnerNotifier interface {
	// OwnerAdded báo cho chính người vừa được thêm và cho các chủ sở hữu
	// còn lại của khách hàng.
	OwnerAdded(ctx context.Context, customer models.Customer, actorID string, newOwnerID string)
}

type noopOwnerNotifier struct{}

func (noopOwnerNotifier) OwnerAdded(context.Context, models.Customer, string, string) {}

// OwnerService xử lý thêm/gỡ chủ sở hữu trên khách hàng
type OwnerService struct {
	customerService *CustomerService
	notifier        OwnerNotifier
}

// NewOwnerService tạo mới OwnerService. notifier nil → thông báo bị tắt.
func NewOwnerService(notifier OwnerNotifier) (*OwnerService, error) {
	customerService, err := NewCustomerService()
	if err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = noopOwnerNotifier{}
	}
	return &OwnerService{
		customerService: customerService,
		notifier:        notifier,
	}, nil
}

// AppendOwner thêm một owner vào danh sách, giữ nguyên thứ tự hiện có.
// Hàm thuần cho phần tính toán danh sách.
func AppendOwner(ownerIds []string, newOwnerID string) ([]string, error) {
	if utility.Contains(ownerIds, newOwnerID) {
		return nil, common.ErrAlreadyOwner
	}
	return append(ownerIds, newOwnerID), nil
}

// RemoveOwnerID gỡ một owner khỏi danh sách. Không cho gỡ owner cuối cùng,
// khách hàng luôn phải có ít nhất một chủ sở hữu.
func RemoveOwnerID(ownerIds []string, ownerID string) ([]string, error) {
	if !utility.Contains(ownerIds, ownerID) {
		return nil, common.ErrNotFound
	}
	if len(ownerIds) <= 1 {
		return nil, common.ErrLastOwnerRemoval
	}
	return utility.Remove(ownerIds, ownerID), nil
}

// AddOwner thêm user vào danh sách chủ sở hữu của khách hàng.
// actorID là người thao tác, dùng để soạn nội dung thông báo.
// Thành công → chạm lastActivity và thông báo chạy nền.
func (s *OwnerService) AddOwner(ctx context.Context, customerID primitive.ObjectID, actorID string, newOwnerID string) (models.Customer, error) {
	customer, err := s.customerService.GetById(ctx, customerID)
	if err != nil {
		return models.Customer{}, err
	}

	// User phải tồn tại mới được làm chủ sở hữu
	oid, err := primitive.ObjectIDFromHex(newOwnerID)
	if err != nil {
		return models.Customer{}, common.ErrUserNotFound
	}
	if _, err := s.customerService.userService.FindOneById(ctx, oid); err != nil {
		return models.Customer{}, common.ErrUserNotFound
	}

	newOwners, err := AppendOwner(customer.OwnerIds, newOwnerID)
	if err != nil {
		return models.Customer{}, err
	}

	updated, err := s.customerService.UpdateById(ctx, customerID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"ownerIds":     newOwners,
			"lastActivity": utility.NowISO(),
		},
	})
	if err != nil {
		return models.Customer{}, err
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("OwnerService: Panic trong notifier")
			}
		}()
		s.notifier.OwnerAdded(context.Background(), updated, actorID, newOwnerID)
	}()

	return updated, nil
}

// RemoveOwner gỡ user khỏi danh sách chủ sở hữu. Không có thông báo cho
// thao tác gỡ.
func (s *OwnerService) RemoveOwner(ctx context.Context, customerID primitive.ObjectID, ownerID string) (models.Customer, error) {
	customer, err := s.customerService.GetById(ctx, customerID)
	if err != nil {
		return models.Customer{}, err
	}

	newOwners, err := RemoveOwnerID(customer.OwnerIds, ownerID)
	if err != nil {
		return models.Customer{}, err
	}

	return s.customerService.UpdateById(ctx, customerID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"ownerIds":     newOwners,
			"lastActivity": utility.NowISO(),
		},
	})
}

// AssignByPhoneNumber tìm user theo số điện thoại rồi thêm làm chủ sở hữu.
// Không có user khớp → NoMatchingUser, không tạo user mới.
func (s *OwnerService) AssignByPhoneNumber(ctx context.Context, customerID primitive.ObjectID, actorID string, rawPhone string) (models.Customer, error) {
	phone, err := utility.NormalizePhone(rawPhone, global.ServerConfig.DefaultCountryCode)
	if err != nil {
		return models.Customer{}, err
	}

	user, err := s.customerService.userService.FindByPhone(ctx, phone)
	if err != nil {
		return models.Customer{}, common.ErrNoMatchingUser
	}

	return s.AddOwner(ctx, customerID, actorID, user.ID.Hex())
}
