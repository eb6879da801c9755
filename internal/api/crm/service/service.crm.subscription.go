// Package crmsvc - subscription danh sách khách hàng theo thời gian thực.
package crmsvc

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "pocket_crm/internal/api/crm/models"
)

// MergeCustomerViews gộp hai luồng kết quả (khách hàng do user tạo và khách
// hàng user đồng sở hữu) thành một danh sách duy nhất: loại trùng theo id,
// sắp xếp theo lastActivity giảm dần. Hàm thuần, không đụng database.
// Timestamps dạng RFC3339 UTC nên so sánh chuỗi cho thứ tự đúng.
func MergeCustomerViews(created []models.Customer, owned []models.Customer) []models.Customer {
	seen := make(map[string]bool, len(created)+len(owned))
	merged := make([]models.Customer, 0, len(created)+len(owned))

	for _, c := range created {
		key := c.ID.Hex()
		if !seen[key] {
			seen[key] = true
			merged = append(merged, c)
		}
	}
	for _, c := range owned {
		key := c.ID.Hex()
		if !seen[key] {
			seen[key] = true
			merged = append(merged, c)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].LastActivity > merged[j].LastActivity
	})
	return merged
}

// CustomerSubscription là một phiên theo dõi danh sách khách hàng của một
// user. Hai change stream chạy song song, mỗi bên giữ snapshot riêng;
// mỗi sự kiện làm bên đó query lại và đẩy bản gộp mới ra channel Updates.
type CustomerSubscription struct {
	mu      sync.Mutex
	created []models.Customer
	owned   []models.Customer

	// Updates nhận bản danh sách gộp mới nhất sau mỗi thay đổi.
	// Channel đóng khi subscription kết thúc (context bị hủy).
	Updates chan []models.Customer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Close dừng subscription và giải phóng các change stream
func (sub *CustomerSubscription) Close() {
	sub.cancel()
	sub.wg.Wait()
}

// Snapshot trả về bản gộp hiện tại
func (sub *CustomerSubscription) Snapshot() []models.Customer {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return MergeCustomerViews(sub.created, sub.owned)
}

// publish gộp hai snapshot và đẩy ra channel. Consumer chậm không chặn
// watcher: buffer đầy thì bỏ bản cũ nhất rồi đẩy lại, bản mới nhất luôn
// tới được consumer kể cả khi sau đó không còn sự kiện nào.
func (sub *CustomerSubscription) publish() {
	merged := sub.Snapshot()
	for {
		select {
		case sub.Updates <- merged:
			return
		default:
		}
		select {
		case <-sub.Updates:
		default:
		}
	}
}

// Subscribe mở phiên theo dõi danh sách khách hàng của userID.
// Snapshot đầu tiên được đẩy ngay khi mở; sau đó mỗi thay đổi trên một
// trong hai phía (tạo / đồng sở hữu) đều sinh một bản gộp mới.
// Một phía lỗi stream → phía đó rơi về danh sách rỗng, phía còn lại vẫn chạy.
func (s *CustomerService) Subscribe(ctx context.Context, userID string) (*CustomerSubscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &CustomerSubscription{
		Updates: make(chan []models.Customer, 8),
		cancel:  cancel,
	}

	createdFilter := bson.M{"userId": userID}
	ownedFilter := bson.M{"ownerIds": userID}

	// Nạp snapshot ban đầu cho cả hai phía trước khi mở stream
	if initial, err := s.Find(subCtx, createdFilter, nil); err == nil {
		sub.created = initial
	} else {
		cancel()
		return nil, err
	}
	if initial, err := s.Find(subCtx, ownedFilter, nil); err == nil {
		sub.owned = initial
	} else {
		cancel()
		return nil, err
	}

	sub.wg.Add(2)
	go s.watchSide(subCtx, sub, createdFilter, func(customers []models.Customer) {
		sub.mu.Lock()
		sub.created = customers
		sub.mu.Unlock()
	})
	go s.watchSide(subCtx, sub, ownedFilter, func(customers []models.Customer) {
		sub.mu.Lock()
		sub.owned = customers
		sub.mu.Unlock()
	})

	// Đẩy bản gộp đầu tiên
	sub.publish()

	// Đóng channel khi cả hai watcher kết thúc
	go func() {
		sub.wg.Wait()
		close(sub.Updates)
	}()

	return sub, nil
}

// watchSide theo dõi một phía của subscription bằng change stream.
// Mỗi sự kiện (kể cả delete) làm phía này query lại toàn bộ rồi publish.
// Stream lỗi → phía này rơi về danh sách rỗng (degraded), không kéo sập
// phía còn lại.
func (s *CustomerService) watchSide(ctx context.Context, sub *CustomerSubscription, filter bson.M, apply func([]models.Customer)) {
	defer sub.wg.Done()

	// Match trên fullDocument cho insert/update/replace; delete không có
	// fullDocument nên cho qua hết rồi query lại để xác định trạng thái.
	orClauses := []bson.M{{"operationType": "delete"}}
	for field, value := range filter {
		orClauses = append(orClauses, bson.M{"fullDocument." + field: value})
	}
	matchStage := bson.D{{Key: "$match", Value: bson.M{"$or": orClauses}}}
	pipeline := mongo.Pipeline{matchStage}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := s.Collection().Watch(ctx, pipeline, opts)
	if err != nil {
		logrus.WithError(err).Error("CustomerSubscription: Không mở được change stream")
		apply([]models.Customer{})
		sub.publish()
		return
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		customers, err := s.Find(ctx, filter, nil)
		if err != nil {
			logrus.WithError(err).Warn("CustomerSubscription: Lỗi query lại sau sự kiện, giữ snapshot cũ")
			continue
		}
		apply(customers)
		sub.publish()
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		logrus.WithError(err).Error("CustomerSubscription: Change stream lỗi, phía này rơi về danh sách rỗng")
		apply([]models.Customer{})
		sub.publish()
	}
}
