package main

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"pocket_crm/internal/database"
	"pocket_crm/internal/global"
	"pocket_crm/internal/logger"
	"pocket_crm/internal/worker"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Logger tự đọc environment variables để cấu hình level/format/output
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	log := logger.GetAppLogger()
	log.Info("Logger system initialized successfully")
}

// main_thread khởi tạo và chạy Fiber server
func main_thread() {
	app := InitFiberApp()

	address := global.ServerConfig.Address
	log := logger.GetAppLogger()
	log.WithFields(map[string]interface{}{
		"address": address,
	}).Info("Starting Fiber server...")

	listenConfig := fiber.ListenConfig{}
	if err := app.Listen(address, listenConfig); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	log := logger.GetAppLogger()

	// Worker dọn phiên OTP chạy nền theo lịch
	cleanupWorker := worker.NewChallengeCleanupWorker()
	if err := cleanupWorker.Start(); err != nil {
		log.WithError(err).Error("Failed to start challenge cleanup worker, continuing without it")
	} else {
		defer cleanupWorker.Stop()
	}

	defer func() {
		if err := database.CloseInstance(global.MongoDB_Session); err != nil {
			log.WithError(err).Error("Error closing MongoDB connection")
		}
	}()

	// Chạy Fiber server trên main thread
	main_thread()
}
