// Package router đăng ký các route thuộc domain auth: Identity Gate, profile, push token.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "pocket_crm/internal/api/auth/handler"
	authsvc "pocket_crm/internal/api/auth/service"
	"pocket_crm/internal/api/middleware"
	apirouter "pocket_crm/internal/api/router"
	"pocket_crm/internal/global"
)

// Register đăng ký tất cả route auth lên v1.
func Register(v1 fiber.Router) error {
	sms := authsvc.NewTwilioSmsSender(global.ServerConfig)
	identityHandler, err := authhdl.NewIdentityHandler(sms)
	if err != nil {
		return fmt.Errorf("failed to create identity handler: %w", err)
	}

	// Các route công khai của Identity Gate
	v1.Post("/auth/request-otp", identityHandler.HandleRequestOtp)
	v1.Post("/auth/confirm-otp", identityHandler.HandleConfirmOtp)
	if global.ServerConfig.DevLoginEnabled {
		v1.Post("/auth/dev-login", identityHandler.HandleDevLogin)
	}

	// Các route cần phiên đăng nhập
	authMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "GET", "/profile", []fiber.Handler{authMiddleware}, identityHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "PUT", "/profile", []fiber.Handler{authMiddleware}, identityHandler.HandleUpdateProfile)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/push-token", []fiber.Handler{authMiddleware}, identityHandler.HandleRegisterPushToken)
	return nil
}
