// Package worker chứa các tác vụ chạy nền theo lịch.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"pocket_crm/internal/common"
	"pocket_crm/internal/global"
)

// ChallengeCleanupWorker dọn các phiên xác thực OTP đã hết hạn hoặc đã dùng.
// TTL index trên collection đã lo phần lớn, worker này quét bổ sung các
// phiên confirmed còn sót để collection không phình.
type ChallengeCleanupWorker struct {
	cron *cron.Cron
}

// NewChallengeCleanupWorker tạo worker với lịch chạy mỗi giờ
func NewChallengeCleanupWorker() *ChallengeCleanupWorker {
	return &ChallengeCleanupWorker{
		cron: cron.New(),
	}
}

// Start đăng ký lịch và bắt đầu chạy nền
func (w *ChallengeCleanupWorker) Start() error {
	if _, err := w.cron.AddFunc("@hourly", w.run); err != nil {
		return fmt.Errorf("failed to schedule challenge cleanup: %w", err)
	}
	w.cron.Start()
	logrus.Info("ChallengeCleanupWorker: Đã khởi động, lịch @hourly")
	return nil
}

// Stop dừng scheduler, chờ job đang chạy kết thúc
func (w *ChallengeCleanupWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

// run xóa các phiên đã confirmed hoặc đã quá hạn
func (w *ChallengeCleanupWorker) run() {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.OtpChallenges)
	if !exist {
		logrus.Error("ChallengeCleanupWorker: Không tìm thấy collection otp_challenges")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	filter := bson.M{
		"$or": []bson.M{
			{"confirmed": true},
			{"expiresAtTs": bson.M{"$lt": time.Now().UTC()}},
		},
	}
	result, err := collection.DeleteMany(ctx, filter)
	if err != nil {
		logrus.WithError(common.ConvertMongoError(err)).Error("ChallengeCleanupWorker: Lỗi dọn phiên OTP")
		return
	}
	if result.DeletedCount > 0 {
		logrus.WithField("deleted", result.DeletedCount).Info("ChallengeCleanupWorker: Đã dọn phiên OTP")
	}
}
