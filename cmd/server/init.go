package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"pocket_crm/config"
	"pocket_crm/internal/database"
	"pocket_crm/internal/global"
	"pocket_crm/internal/utility"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
	initFirebase()         // Khởi tạo Firebase Storage
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Users = "auth_users"
	global.MongoDB_ColNames.OtpChallenges = "auth_otp_challenges"

	// Module CRM (tiền tố crm_)
	global.MongoDB_ColNames.Customers = "crm_customers"
	global.MongoDB_ColNames.Engagements = "crm_engagements"
	global.MongoDB_ColNames.Attachments = "crm_attachments"

	logrus.Info("Initialized collection names") // Ghi log thông báo đã khởi tạo tên các collection
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators: phone_normalized, engagement_status)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	db := global.MongoDB_Session.Database(global.ServerConfig.MongoDB_DBName)

	// Khởi tạo các index cho các collection
	if err := database.EnsureIndexes(context.TODO(), db, global.MongoDB_ColNames); err != nil {
		logrus.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Đăng ký các collection vào registry để các service tra cứu
	for _, name := range []string{
		global.MongoDB_ColNames.Users,
		global.MongoDB_ColNames.OtpChallenges,
		global.MongoDB_ColNames.Customers,
		global.MongoDB_ColNames.Engagements,
		global.MongoDB_ColNames.Attachments,
	} {
		if _, err := global.RegistryCollections.Register(name, db.Collection(name)); err != nil {
			logrus.Fatalf("Failed to register collection %s: %v", name, err)
		}
	}
	logrus.Info("Registered collections")
}

// Hàm khởi tạo Firebase Storage (blob store cho avatar và file đính kèm)
func initFirebase() {
	cfg := global.ServerConfig
	if cfg.FirebaseProjectID == "" || cfg.FirebaseCredentialsPath == "" {
		logrus.Warn("Firebase chưa được cấu hình, tính năng upload file sẽ không khả dụng")
		return
	}
	if err := utility.InitFirebase(cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket); err != nil {
		logrus.Fatalf("Failed to initialize Firebase: %v", err)
	}
	logrus.Info("Initialized Firebase Storage")
}
