package utility

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// ToMap chuyển một struct thành map[string]interface{} qua BSON marshal/unmarshal,
// tôn trọng các bson tag (omitempty, tên trường).
func ToMap(data interface{}) (map[string]interface{}, error) {
	if m, ok := data.(map[string]interface{}); ok {
		return m, nil
	}

	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := bson.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// NowISO trả về thời điểm hiện tại dạng chuỗi ISO-8601 (RFC3339, UTC).
// Mọi timestamp nghiệp vụ (createdAt, lastActivity, lastUpdated...) dùng dạng này.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ParseISO parse chuỗi ISO-8601 về time.Time; trả về zero time khi chuỗi không hợp lệ.
func ParseISO(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
