package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pocket_crm/internal/global"
	"pocket_crm/internal/logger"
)

// EnsureIndexes tạo các index cần thiết cho các collection.
// Gọi một lần khi khởi động server; CreateMany là idempotent với index trùng.
func EnsureIndexes(ctx context.Context, db *mongo.Database, colNames global.MongoDB_CollectionName) error {
	log := logger.GetAppLogger()

	// users: tra cứu theo số điện thoại phải duy nhất (Identity Gate upsert theo phone)
	_, err := db.Collection(colNames.Users).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phoneNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	// otp_challenges: tra cứu theo challengeId; TTL dọn document hết hạn như một
	// lớp sau worker cron (expireAfterSeconds tính trên trường Date expiresAtTs)
	_, err = db.Collection(colNames.OtpChallenges).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "challengeId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAtTs", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32((24 * time.Hour).Seconds())),
		},
	})
	if err != nil {
		return err
	}

	// customers: hai truy vấn sống của subscription (creator và membership) + sort lastActivity
	_, err = db.Collection(colNames.Customers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "lastActivity", Value: -1}}},
		{Keys: bson.D{{Key: "ownerIds", Value: 1}, {Key: "lastActivity", Value: -1}}},
		{Keys: bson.D{{Key: "phone", Value: 1}}},
	})
	if err != nil {
		return err
	}

	// engagements / attachments: truy vấn theo khách hàng cha
	_, err = db.Collection(colNames.Engagements).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "customerId", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(colNames.Attachments).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "customerId", Value: 1}}},
	})
	if err != nil {
		return err
	}

	log.Info("Ensured MongoDB indexes")
	return nil
}
