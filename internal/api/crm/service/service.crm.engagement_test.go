package crmsvc

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "pocket_crm/internal/api/base/service"
	crmdto "pocket_crm/internal/api/crm/dto"
	models "pocket_crm/internal/api/crm/models"
	"pocket_crm/internal/common"
)

// stubEngagementStore trả về một engagement cố định, dùng để test logic
// service không cần MongoDB
type stubEngagementStore struct {
	basesvc.BaseServiceMongo[models.Engagement]
	engagement models.Engagement
}

func (s *stubEngagementStore) FindOneById(ctx context.Context, id primitive.ObjectID) (models.Engagement, error) {
	return s.engagement, nil
}

func TestUpdate_TuChoiEngagementKhacKhachHang(t *testing.T) {
	parent := primitive.NewObjectID()
	other := primitive.NewObjectID()
	engagementID := primitive.NewObjectID()

	svc := &EngagementService{
		BaseServiceMongo: &stubEngagementStore{
			engagement: models.Engagement{
				ID:         engagementID,
				CustomerID: parent.Hex(),
				Status:     models.EngagementStatusOpen,
			},
		},
		notifier: noopNotifier{},
	}

	// Đường dẫn trỏ sang khách hàng khác → không được đụng vào engagement
	_, err := svc.Update(context.Background(), other, engagementID, &crmdto.UpdateEngagementInput{})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Engagement thuộc khách hàng khác phải bị từ chối với ErrNotFound, got %v", err)
	}
}

func TestUpdate_ChanStatusKhongHopLe(t *testing.T) {
	parent := primitive.NewObjectID()
	engagementID := primitive.NewObjectID()

	svc := &EngagementService{
		BaseServiceMongo: &stubEngagementStore{
			engagement: models.Engagement{
				ID:         engagementID,
				CustomerID: parent.Hex(),
				Status:     models.EngagementStatusOpen,
			},
		},
		notifier: noopNotifier{},
	}

	bad := "khong_ton_tai"
	input := crmdto.UpdateEngagementInput{Status: &bad}
	_, err := svc.Update(context.Background(), parent, engagementID, &input)
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("Status ngoài tập hợp lệ phải bị chặn với ErrInvalidInput, got %v", err)
	}
}
