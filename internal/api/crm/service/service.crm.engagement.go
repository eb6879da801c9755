// Package crmsvc - service tương tác (Engagement) của khách hàng.
package crmsvc

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "pocket_crm/internal/api/base/service"
	crmdto "pocket_crm/internal/api/crm/dto"
	models "pocket_crm/internal/api/crm/models"
	"pocket_crm/internal/common"
	"pocket_crm/internal/global"
	"pocket_crm/internal/utility"
)

// Notifier nhận các sự kiện nghiệp vụ cần thông báo cho chủ sở hữu.
// Interface khai báo tại phía dùng để service test được với fake.
// Mọi lời gọi đều best-effort: notifier tự nuốt lỗi, không trả về.
type Notifier interface {
	EngagementCreated(ctx context.Context, customer models.Customer, engagement models.Engagement)
	EngagementStatusChanged(ctx context.Context, customer models.Customer, engagement models.Engagement, oldStatus string, newStatus string)
}

// noopNotifier dùng khi không cấu hình kênh thông báo
type noopNotifier struct{}

func (noopNotifier) EngagementCreated(context.Context, models.Customer, models.Engagement) {}
func (noopNotifier) EngagementStatusChanged(context.Context, models.Customer, models.Engagement, string, string) {
}

// EngagementService là cấu trúc chứa các phương thức liên quan đến engagement
type EngagementService struct {
	basesvc.BaseServiceMongo[models.Engagement]
	customerService *CustomerService
	notifier        Notifier
}

// NewEngagementService tạo mới EngagementService.
// notifier nil → thông báo bị tắt (noop).
func NewEngagementService(notifier Notifier) (*EngagementService, error) {
	engagementCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Engagements)
	if !exist {
		return nil, fmt.Errorf("failed to get engagements collection: %v", common.ErrNotFound)
	}
	customerService, err := NewCustomerService()
	if err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}

	return &EngagementService{
		BaseServiceMongo: basesvc.NewBaseServiceMongo[models.Engagement](engagementCollection),
		customerService:  customerService,
		notifier:         notifier,
	}, nil
}

// Add tạo engagement mới cho khách hàng, chạm lastActivity của khách hàng
// và thông báo cho các chủ sở hữu. Thông báo chạy nền, lỗi gửi không ảnh
// hưởng kết quả trả về.
func (s *EngagementService) Add(ctx context.Context, customerID primitive.ObjectID, input *crmdto.CreateEngagementInput) (models.Engagement, error) {
	customer, err := s.customerService.GetById(ctx, customerID)
	if err != nil {
		return models.Engagement{}, err
	}

	status := input.Status
	if status == "" {
		status = models.EngagementStatusOpen
	}
	if !models.IsValidEngagementStatus(status) {
		return models.Engagement{}, common.ErrInvalidInput
	}

	now := utility.NowISO()
	engagement := models.Engagement{
		CustomerID:  customerID.Hex(),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		CreatedAt:   now,
		LastUpdated: now,
	}

	created, err := s.InsertOne(ctx, engagement)
	if err != nil {
		return models.Engagement{}, err
	}

	s.customerService.TouchActivity(ctx, customerID.Hex())
	s.notifyDetached(func(bgCtx context.Context) {
		s.notifier.EngagementCreated(bgCtx, customer, created)
	})

	return created, nil
}

// Update cập nhật engagement theo merge semantics, chạm lastActivity của
// khách hàng cha. Engagement phải thuộc đúng khách hàng trên đường dẫn,
// lệch cha → NotFound. Chỉ khi status thực sự đổi giá trị mới có thông báo,
// kèm cả trạng thái cũ và mới.
func (s *EngagementService) Update(ctx context.Context, customerID primitive.ObjectID, engagementID primitive.ObjectID, input *crmdto.UpdateEngagementInput) (models.Engagement, error) {
	existing, err := s.FindOneById(ctx, engagementID)
	if err != nil {
		return models.Engagement{}, err
	}
	if existing.CustomerID != customerID.Hex() {
		return models.Engagement{}, common.ErrNotFound
	}

	set := map[string]interface{}{
		"lastUpdated": utility.NowISO(),
	}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}

	statusChanged := false
	if input.Status != nil && *input.Status != existing.Status {
		if !models.IsValidEngagementStatus(*input.Status) {
			return models.Engagement{}, common.ErrInvalidInput
		}
		set["status"] = *input.Status
		statusChanged = true
	}

	updated, err := s.UpdateById(ctx, engagementID, &basesvc.UpdateData{Set: set})
	if err != nil {
		return models.Engagement{}, err
	}

	s.customerService.TouchActivity(ctx, existing.CustomerID)

	if statusChanged {
		oid, err := primitive.ObjectIDFromHex(existing.CustomerID)
		if err == nil {
			if customer, err := s.customerService.GetById(ctx, oid); err == nil {
				oldStatus := existing.Status
				s.notifyDetached(func(bgCtx context.Context) {
					s.notifier.EngagementStatusChanged(bgCtx, customer, updated, oldStatus, updated.Status)
				})
			}
		}
	}

	return updated, nil
}

// List trả về toàn bộ engagement của một khách hàng theo thứ tự lưu trữ
func (s *EngagementService) List(ctx context.Context, customerID primitive.ObjectID) ([]models.Engagement, error) {
	return s.Find(ctx, bson.M{"customerId": customerID.Hex()}, nil)
}

// notifyDetached chạy một lời gọi thông báo trong goroutine riêng với
// context nền, request kết thúc không cắt ngang việc gửi. Panic trong
// notifier được recover để không kéo sập server.
func (s *EngagementService) notifyDetached(fn func(ctx context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("EngagementService: Panic trong notifier")
			}
		}()
		fn(context.Background())
	}()
}
