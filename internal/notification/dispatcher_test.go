package notification

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	crmmodels "pocket_crm/internal/api/crm/models"
	"pocket_crm/internal/notification/channels"
)

// fakeResolver tra token theo map cố định
type fakeResolver struct {
	tokens map[string][]string
	labels map[string]string
}

func (f *fakeResolver) TokensOf(ctx context.Context, userIDs []string) []string {
	var result []string
	for _, id := range userIDs {
		result = append(result, f.tokens[id]...)
	}
	return result
}

func (f *fakeResolver) DisplayLabelOf(ctx context.Context, userID string) string {
	if label, ok := f.labels[userID]; ok {
		return label
	}
	return "Một người dùng"
}

// fakeSender ghi lại mọi push đã gửi, có thể cấu hình token lỗi
type fakeSender struct {
	sent    []channels.PushMessage
	failFor map[string]bool
}

func (f *fakeSender) SendPush(ctx context.Context, message channels.PushMessage) error {
	if f.failFor[message.To] {
		return errors.New("push gateway error")
	}
	f.sent = append(f.sent, message)
	return nil
}

func newTestDispatcher(resolver *fakeResolver, sender *fakeSender) *Dispatcher {
	return NewDispatcher(resolver, resolver, sender)
}

func TestNotifyUsers_FanOutMoiToken(t *testing.T) {
	resolver := &fakeResolver{tokens: map[string][]string{
		"u1": {"tok1", "tok2"},
		"u2": {"tok3"},
	}}
	sender := &fakeSender{}
	d := newTestDispatcher(resolver, sender)

	d.NotifyUsers(context.Background(), []string{"u1", "u2"}, "Tiêu đề", "Nội dung", nil)

	if len(sender.sent) != 3 {
		t.Fatalf("Phải gửi cho từng token một, kỳ vọng 3 push, got %d", len(sender.sent))
	}
	for _, msg := range sender.sent {
		if msg.Sound != "default" {
			t.Errorf("Push phải có sound default, got %q", msg.Sound)
		}
		if msg.Title != "Tiêu đề" || msg.Body != "Nội dung" {
			t.Errorf("Nội dung push không đúng: %+v", msg)
		}
	}
}

func TestNotifyUsers_KhongCoToken(t *testing.T) {
	resolver := &fakeResolver{tokens: map[string][]string{}}
	sender := &fakeSender{}
	d := newTestDispatcher(resolver, sender)

	d.NotifyUsers(context.Background(), []string{"u1"}, "Tiêu đề", "Nội dung", nil)

	if len(sender.sent) != 0 {
		t.Errorf("User không có token thì không gửi gì, got %d push", len(sender.sent))
	}
}

func TestNotifyUsers_MotTokenLoiKhongChanCacTokenKhac(t *testing.T) {
	resolver := &fakeResolver{tokens: map[string][]string{
		"u1": {"tok1", "tok-hong", "tok2"},
	}}
	sender := &fakeSender{failFor: map[string]bool{"tok-hong": true}}
	d := newTestDispatcher(resolver, sender)

	d.NotifyUsers(context.Background(), []string{"u1"}, "Tiêu đề", "Nội dung", nil)

	if len(sender.sent) != 2 {
		t.Fatalf("Token lỗi phải bị bỏ qua, hai token còn lại vẫn nhận, got %d", len(sender.sent))
	}
}

func TestNotifyUsers_UserTrungChiGuiMotLan(t *testing.T) {
	resolver := &fakeResolver{tokens: map[string][]string{
		"u1": {"tok1"},
	}}
	sender := &fakeSender{}
	d := newTestDispatcher(resolver, sender)

	d.NotifyUsers(context.Background(), []string{"u1", "u1"}, "Tiêu đề", "Nội dung", nil)

	if len(sender.sent) != 1 {
		t.Errorf("User trùng trong danh sách chỉ được gửi một lần, got %d", len(sender.sent))
	}
}

func TestOwnerAdded_GuiHaiLoaiThongBao(t *testing.T) {
	resolver := &fakeResolver{
		tokens: map[string][]string{
			"actor":    {"tok-actor"},
			"newOwner": {"tok-new"},
			"other":    {"tok-other"},
		},
		labels: map[string]string{"actor": "An", "newOwner": "Bình"},
	}
	sender := &fakeSender{}
	d := newTestDispatcher(resolver, sender)

	oid := primitive.NewObjectID()
	customer := crmmodels.Customer{
		ID:       oid,
		Name:     "Khách A",
		OwnerIds: []string{"actor", "newOwner", "other"},
	}
	d.OwnerAdded(context.Background(), customer, "actor", "newOwner")

	// newOwner nhận thông báo "bạn được thêm", other nhận "chủ sở hữu mới",
	// actor không tự nhận thông báo về hành động của mình
	if len(sender.sent) != 2 {
		t.Fatalf("Kỳ vọng 2 push (người được thêm + chủ sở hữu còn lại), got %d", len(sender.sent))
	}
	for _, msg := range sender.sent {
		if msg.To == "tok-actor" {
			t.Error("Người thao tác không được nhận thông báo về hành động của chính mình")
		}
	}
}

func TestEngagementCreated_GuiChoMoiChuSoHuu(t *testing.T) {
	resolver := &fakeResolver{tokens: map[string][]string{
		"u1": {"tok1"},
		"u2": {"tok2"},
	}}
	sender := &fakeSender{}
	d := newTestDispatcher(resolver, sender)

	customer := crmmodels.Customer{
		ID:       primitive.NewObjectID(),
		Name:     "Khách A",
		OwnerIds: []string{"u1", "u2"},
	}
	engagement := crmmodels.Engagement{
		ID:    primitive.NewObjectID(),
		Title: "Báo giá",
	}
	d.EngagementCreated(context.Background(), customer, engagement)

	if len(sender.sent) != 2 {
		t.Fatalf("Mọi chủ sở hữu đều phải nhận thông báo, got %d", len(sender.sent))
	}
}
