// Package notification fan-out thông báo push tới chủ sở hữu khách hàng.
package notification

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	crmmodels "pocket_crm/internal/api/crm/models"
	"pocket_crm/internal/notification/channels"
	"pocket_crm/internal/utility"
)

// TokenResolver tra danh sách token push của một tập user.
// User không có token hoặc không tồn tại thì bỏ qua, không coi là lỗi.
type TokenResolver interface {
	TokensOf(ctx context.Context, userIDs []string) []string
}

// LabelResolver tra nhãn hiển thị của một user để soạn nội dung thông báo
type LabelResolver interface {
	DisplayLabelOf(ctx context.Context, userID string) string
}

// Dispatcher gửi thông báo nghiệp vụ cho chủ sở hữu khách hàng.
// Mọi phương thức đều best-effort: lỗi gửi từng token được log rồi bỏ qua,
// không bao giờ lan ngược về thao tác ghi đã thành công.
type Dispatcher struct {
	tokens TokenResolver
	labels LabelResolver
	sender channels.PushSender
}

// NewDispatcher tạo mới Dispatcher
func NewDispatcher(tokens TokenResolver, labels LabelResolver, sender channels.PushSender) *Dispatcher {
	return &Dispatcher{
		tokens: tokens,
		labels: labels,
		sender: sender,
	}
}

// NotifyUsers gửi một thông báo tới toàn bộ token của một tập user.
// Không có token nào → không gửi gì, không lỗi.
func (d *Dispatcher) NotifyUsers(ctx context.Context, userIDs []string, title string, body string, data map[string]interface{}) {
	tokens := d.tokens.TokensOf(ctx, utility.Unique(userIDs))
	for _, token := range tokens {
		message := channels.PushMessage{
			To:    token,
			Sound: "default",
			Title: title,
			Body:  body,
			Data:  data,
		}
		if err := d.sender.SendPush(ctx, message); err != nil {
			// Một token hỏng không chặn các token còn lại
			logrus.WithFields(logrus.Fields{
				"token": token,
				"error": err.Error(),
			}).Warn("Dispatcher: Lỗi gửi push, bỏ qua token")
		}
	}
}

// EngagementCreated báo cho các chủ sở hữu khi khách hàng có engagement mới
func (d *Dispatcher) EngagementCreated(ctx context.Context, customer crmmodels.Customer, engagement crmmodels.Engagement) {
	body := fmt.Sprintf("Tương tác mới \"%s\" vừa được tạo cho %s", engagement.Title, customer.Name)
	d.NotifyUsers(ctx, customer.OwnerIds, "Tương tác mới", body, map[string]interface{}{
		"customerId":   customer.ID.Hex(),
		"engagementId": engagement.ID.Hex(),
	})
}

// EngagementStatusChanged báo cho các chủ sở hữu khi trạng thái engagement
// đổi giá trị, kèm cả trạng thái cũ và mới
func (d *Dispatcher) EngagementStatusChanged(ctx context.Context, customer crmmodels.Customer, engagement crmmodels.Engagement, oldStatus string, newStatus string) {
	body := fmt.Sprintf("\"%s\" của %s chuyển từ %s sang %s", engagement.Title, customer.Name, oldStatus, newStatus)
	d.NotifyUsers(ctx, customer.OwnerIds, "Cập nhật trạng thái", body, map[string]interface{}{
		"customerId":   customer.ID.Hex(),
		"engagementId": engagement.ID.Hex(),
		"oldStatus":    oldStatus,
		"newStatus":    newStatus,
	})
}

// OwnerAdded gửi hai thông báo khác nhau: một cho chính người vừa được
// thêm, một cho các chủ sở hữu còn lại (trừ người thao tác tự thêm mình).
func (d *Dispatcher) OwnerAdded(ctx context.Context, customer crmmodels.Customer, actorID string, newOwnerID string) {
	actorLabel := d.labels.DisplayLabelOf(ctx, actorID)
	newOwnerLabel := d.labels.DisplayLabelOf(ctx, newOwnerID)

	// Báo cho người vừa được thêm
	d.NotifyUsers(ctx, []string{newOwnerID},
		"Bạn được thêm làm chủ sở hữu",
		fmt.Sprintf("%s đã thêm bạn làm chủ sở hữu của %s", actorLabel, customer.Name),
		map[string]interface{}{"customerId": customer.ID.Hex()},
	)

	// Báo cho các chủ sở hữu còn lại
	others := make([]string, 0, len(customer.OwnerIds))
	for _, id := range customer.OwnerIds {
		if id != newOwnerID && id != actorID {
			others = append(others, id)
		}
	}
	if len(others) > 0 {
		d.NotifyUsers(ctx, others,
			"Chủ sở hữu mới",
			fmt.Sprintf("%s vừa được thêm làm chủ sở hữu của %s", newOwnerLabel, customer.Name),
			map[string]interface{}{"customerId": customer.ID.Hex()},
		)
	}
}
