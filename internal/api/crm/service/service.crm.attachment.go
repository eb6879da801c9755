// Package crmsvc - service file đính kèm (Attachment) của khách hàng.
package crmsvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "pocket_crm/internal/api/base/service"
	models "pocket_crm/internal/api/crm/models"
	"pocket_crm/internal/common"
	"pocket_crm/internal/global"
	"pocket_crm/internal/utility"
)

// Giới hạn kích thước upload
const (
	MaxAttachmentSize = 10 << 20 // 10MB cho file đính kèm
	MaxAvatarSize     = 5 << 20  // 5MB cho ảnh đại diện
)

// BlobUploader đẩy một blob lên kho lưu trữ và trả về URL tải công khai.
// Interface để test service không cần bucket thật.
type BlobUploader interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)
}

// IdentityWaiter chờ danh tính người gọi sẵn sàng trước khi upload.
// Trên đường upload, danh tính có thể chưa kịp xác lập ngay sau khi đăng
// nhập; waiter poll trong giới hạn rồi mới bỏ cuộc.
type IdentityWaiter interface {
	WaitForIdentity(ctx context.Context, userID string) error
}

// PollingIdentityWaiter poll sự tồn tại của user theo chu kỳ cố định,
// tối đa maxAttempts lần.
type PollingIdentityWaiter struct {
	Exists      func(ctx context.Context, userID string) (bool, error)
	Interval    time.Duration
	MaxAttempts int
}

// WaitForIdentity chờ đến khi user tồn tại hoặc hết số lần thử.
// Hết lượt mà danh tính vẫn chưa có → NotAuthenticated.
func (w *PollingIdentityWaiter) WaitForIdentity(ctx context.Context, userID string) error {
	interval := w.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	attempts := w.MaxAttempts
	if attempts <= 0 {
		attempts = 10
	}

	for i := 0; i < attempts; i++ {
		exists, err := w.Exists(ctx, userID)
		if err == nil && exists {
			return nil
		}
		select {
		case <-ctx.Done():
			return common.ErrNotAuthenticated
		case <-time.After(interval):
		}
	}
	return common.ErrNotAuthenticated
}

// ValidateAttachmentUpload kiểm tra file đính kèm trước khi upload.
// Hàm thuần: file rỗng hoặc quá 10MB bị chặn tại đây, trước khi chạm
// tới blob store.
func ValidateAttachmentUpload(data []byte) error {
	if len(data) == 0 {
		return common.ErrEmptyFile
	}
	if len(data) > MaxAttachmentSize {
		return common.ErrFileTooLarge
	}
	return nil
}

// ValidateAvatarUpload kiểm tra ảnh đại diện: nguồn phải là URI scheme
// hợp lệ (file, content, http, https), kích thước tối đa 5MB.
func ValidateAvatarUpload(imageURI string, data []byte) error {
	if !hasValidImageScheme(imageURI) {
		return common.ErrInvalidImageSource
	}
	if len(data) == 0 {
		return common.ErrEmptyFile
	}
	if len(data) > MaxAvatarSize {
		return common.ErrAvatarTooLarge
	}
	return nil
}

func hasValidImageScheme(uri string) bool {
	for _, scheme := range []string{"file://", "content://", "http://", "https://"} {
		if strings.HasPrefix(uri, scheme) {
			return true
		}
	}
	return false
}

// firebaseUploader là BlobUploader mặc định, trỏ vào Firebase Storage
type firebaseUploader struct{}

func (firebaseUploader) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	return utility.UploadObject(ctx, objectPath, data, contentType)
}

// AttachmentService là cấu trúc chứa các phương thức liên quan đến attachment
type AttachmentService struct {
	*basesvc.BaseServiceMongoImpl[models.Attachment]
	customerService *CustomerService
	uploader        BlobUploader
	waiter          IdentityWaiter
}

// NewAttachmentService tạo mới AttachmentService.
// uploader nil → dùng Firebase Storage; waiter nil → poll user trên MongoDB.
func NewAttachmentService(uploader BlobUploader, waiter IdentityWaiter) (*AttachmentService, error) {
	attachmentCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Attachments)
	if !exist {
		return nil, fmt.Errorf("failed to get attachments collection: %v", common.ErrNotFound)
	}
	customerService, err := NewCustomerService()
	if err != nil {
		return nil, err
	}
	if uploader == nil {
		uploader = firebaseUploader{}
	}
	if waiter == nil {
		waiter = &PollingIdentityWaiter{
			Exists: func(ctx context.Context, userID string) (bool, error) {
				oid, err := primitive.ObjectIDFromHex(userID)
				if err != nil {
					return false, err
				}
				return customerService.userService.DocumentExists(ctx, bson.M{"_id": oid})
			},
		}
	}

	return &AttachmentService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Attachment](attachmentCollection),
		customerService:      customerService,
		uploader:             uploader,
		waiter:               waiter,
	}, nil
}

// Upload đẩy file đính kèm lên blob store và lưu metadata.
// Danh tính người gọi phải sẵn sàng (poll có giới hạn), file được kiểm tra
// kích thước trước khi chạm blob store. Thành công → chạm lastActivity.
func (s *AttachmentService) Upload(ctx context.Context, userID string, customerID primitive.ObjectID, fileName string, contentType string, data []byte) (models.Attachment, error) {
	if err := s.waiter.WaitForIdentity(ctx, userID); err != nil {
		return models.Attachment{}, err
	}
	if err := ValidateAttachmentUpload(data); err != nil {
		return models.Attachment{}, err
	}
	if _, err := s.customerService.GetById(ctx, customerID); err != nil {
		return models.Attachment{}, err
	}

	objectPath := fmt.Sprintf("customers/%s/attachments/%s", customerID.Hex(), fileName)
	url, err := s.uploader.Upload(ctx, objectPath, data, contentType)
	if err != nil {
		return models.Attachment{}, err
	}

	attachment := models.Attachment{
		CustomerID: customerID.Hex(),
		Name:       fileName,
		URL:        url,
		Type:       contentType,
		Size:       int64(len(data)),
		UploadedAt: utility.NowISO(),
	}
	created, err := s.InsertOne(ctx, attachment)
	if err != nil {
		return models.Attachment{}, err
	}

	s.customerService.TouchActivity(ctx, customerID.Hex())
	return created, nil
}

// UploadAvatar đẩy ảnh đại diện của khách hàng lên blob store và trả về URL.
// Cùng điều kiện danh tính với Upload: waiter phải xác nhận user trước.
// Đường dẫn có timestamp để mỗi lần đổi ảnh ra một object mới (tránh cache
// cũ). Hàm chỉ trả về URL, không tự ghi vào bản ghi khách hàng.
func (s *AttachmentService) UploadAvatar(ctx context.Context, userID string, customerID primitive.ObjectID, imageURI string, data []byte) (string, error) {
	if err := s.waiter.WaitForIdentity(ctx, userID); err != nil {
		return "", err
	}
	if err := ValidateAvatarUpload(imageURI, data); err != nil {
		return "", err
	}
	if _, err := s.customerService.GetById(ctx, customerID); err != nil {
		return "", err
	}

	objectPath := fmt.Sprintf("customers/%s/avatar_%d.jpg", customerID.Hex(), time.Now().UnixMilli())
	return s.uploader.Upload(ctx, objectPath, data, "image/jpeg")
}

// SetAvatar upload ảnh đại diện rồi ghi URL vào khách hàng, chạm lastActivity
func (s *AttachmentService) SetAvatar(ctx context.Context, userID string, customerID primitive.ObjectID, imageURI string, data []byte) (string, error) {
	url, err := s.UploadAvatar(ctx, userID, customerID, imageURI, data)
	if err != nil {
		return "", err
	}
	if _, err := s.customerService.UpdateById(ctx, customerID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"avatarUrl":    url,
			"lastActivity": utility.NowISO(),
		},
	}); err != nil {
		return "", err
	}
	return url, nil
}

// List trả về metadata của toàn bộ file đính kèm của một khách hàng
func (s *AttachmentService) List(ctx context.Context, customerID primitive.ObjectID) ([]models.Attachment, error) {
	return s.Find(ctx, bson.M{"customerId": customerID.Hex()}, nil)
}
