package crmsvc

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "pocket_crm/internal/api/crm/models"
)

func makeCustomer(id string, lastActivity string) models.Customer {
	oid, _ := primitive.ObjectIDFromHex(id)
	return models.Customer{ID: oid, LastActivity: lastActivity}
}

const (
	idA = "65a000000000000000000001"
	idB = "65a000000000000000000002"
	idC = "65a000000000000000000003"
)

func TestMergeCustomerViews_LoaiTrungTheoId(t *testing.T) {
	shared := makeCustomer(idA, "2026-01-02T00:00:00Z")
	created := []models.Customer{shared, makeCustomer(idB, "2026-01-01T00:00:00Z")}
	owned := []models.Customer{shared}

	got := MergeCustomerViews(created, owned)
	if len(got) != 2 {
		t.Fatalf("Khách hàng xuất hiện ở cả hai phía chỉ được tính một lần, got %d phần tử", len(got))
	}
}

func TestMergeCustomerViews_SapXepLastActivityGiamDan(t *testing.T) {
	created := []models.Customer{makeCustomer(idA, "2026-01-01T00:00:00Z")}
	owned := []models.Customer{
		makeCustomer(idB, "2026-01-03T00:00:00Z"),
		makeCustomer(idC, "2026-01-02T00:00:00Z"),
	}

	got := MergeCustomerViews(created, owned)
	if len(got) != 3 {
		t.Fatalf("Phải gộp đủ 3 khách hàng, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].LastActivity < got[i].LastActivity {
			t.Errorf("Kết quả phải giảm dần theo lastActivity: vị trí %d (%s) đứng trước %s", i-1, got[i-1].LastActivity, got[i].LastActivity)
		}
	}
	if got[0].ID.Hex() != idB {
		t.Errorf("Khách hàng hoạt động mới nhất phải đứng đầu, got %s", got[0].ID.Hex())
	}
}

func TestMergeCustomerViews_MotPhiaRong(t *testing.T) {
	owned := []models.Customer{makeCustomer(idA, "2026-01-01T00:00:00Z")}

	got := MergeCustomerViews(nil, owned)
	if len(got) != 1 {
		t.Fatalf("Một phía rỗng (degraded) thì phía còn lại vẫn phải ra đủ, got %d", len(got))
	}
	if got[0].ID.Hex() != idA {
		t.Errorf("Kết quả không đúng khách hàng, got %s", got[0].ID.Hex())
	}
}

func TestMergeCustomerViews_CaHaiRong(t *testing.T) {
	got := MergeCustomerViews(nil, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Cả hai phía rỗng phải ra slice rỗng, got %v", got)
	}
}

func TestPublish_BufferDayVanGiaoBanMoiNhat(t *testing.T) {
	sub := &CustomerSubscription{Updates: make(chan []models.Customer, 1)}
	sub.created = []models.Customer{makeCustomer(idA, "2026-01-02T00:00:00Z")}

	// Bản cũ đang kẹt trong buffer, consumer chưa đọc
	sub.Updates <- []models.Customer{}

	sub.publish()

	got := <-sub.Updates
	if len(got) != 1 || got[0].ID.Hex() != idA {
		t.Fatalf("Buffer đầy phải bỏ bản cũ và giao bản gộp mới nhất, got %v", got)
	}
	select {
	case stale := <-sub.Updates:
		t.Errorf("Không được còn bản thừa trong buffer, got %v", stale)
	default:
	}
}

func TestMergeCustomerViews_Idempotent(t *testing.T) {
	created := []models.Customer{makeCustomer(idA, "2026-01-02T00:00:00Z")}
	owned := []models.Customer{makeCustomer(idB, "2026-01-01T00:00:00Z")}

	first := MergeCustomerViews(created, owned)
	second := MergeCustomerViews(created, owned)
	if len(first) != len(second) {
		t.Fatalf("Gộp hai lần cùng đầu vào phải ra cùng kết quả: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("Thứ tự không ổn định tại vị trí %d", i)
		}
	}
}
