// Package router đăng ký các route thuộc domain crm: khách hàng, engagement,
// attachment, chủ sở hữu và live feed.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authsvc "pocket_crm/internal/api/auth/service"
	crmhdl "pocket_crm/internal/api/crm/handler"
	"pocket_crm/internal/api/middleware"
	apirouter "pocket_crm/internal/api/router"
	"pocket_crm/internal/global"
	"pocket_crm/internal/notification"
	"pocket_crm/internal/notification/channels"
)

// Register đăng ký tất cả route crm lên v1. Toàn bộ domain crm nằm sau
// AuthMiddleware.
func Register(v1 fiber.Router) error {
	// Dispatcher là dependency tĩnh, dựng một lần tại đây và inject vào
	// các service cần thông báo
	userService, err := authsvc.NewUserService()
	if err != nil {
		return fmt.Errorf("failed to create user service: %w", err)
	}
	sender := channels.NewExpoPushSender(global.ServerConfig.ExpoPushURL)
	dispatcher := notification.NewDispatcher(userService, userService, sender)

	customerHandler, err := crmhdl.NewCustomerHandler()
	if err != nil {
		return fmt.Errorf("failed to create customer handler: %w", err)
	}
	engagementHandler, err := crmhdl.NewEngagementHandler(dispatcher)
	if err != nil {
		return fmt.Errorf("failed to create engagement handler: %w", err)
	}
	attachmentHandler, err := crmhdl.NewAttachmentHandler()
	if err != nil {
		return fmt.Errorf("failed to create attachment handler: %w", err)
	}
	ownerHandler, err := crmhdl.NewOwnerHandler(dispatcher)
	if err != nil {
		return fmt.Errorf("failed to create owner handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()
	mw := []fiber.Handler{authMiddleware}

	// Khách hàng
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "POST", "/", mw, customerHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "GET", "/", mw, customerHandler.HandleList)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "GET", "/feed", mw, customerHandler.HandleFeed)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "GET", "/:id", mw, customerHandler.HandleGetById)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "PUT", "/:id", mw, customerHandler.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "DELETE", "/:id", mw, customerHandler.HandleDelete)

	// Engagement
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "POST", "/:id/engagements", mw, engagementHandler.HandleAdd)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "GET", "/:id/engagements", mw, engagementHandler.HandleList)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "PUT", "/:id/engagements/:engagementId", mw, engagementHandler.HandleUpdate)

	// Attachment và avatar
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "POST", "/:id/attachments", mw, attachmentHandler.HandleUpload)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "GET", "/:id/attachments", mw, attachmentHandler.HandleList)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "POST", "/:id/avatar", mw, attachmentHandler.HandleSetAvatar)

	// Chủ sở hữu
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "POST", "/:id/owners", mw, ownerHandler.HandleAddOwner)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "DELETE", "/:id/owners/:ownerId", mw, ownerHandler.HandleRemoveOwner)
	apirouter.RegisterRouteWithMiddleware(v1, "/customers", "POST", "/:id/owners/by-phone", mw, ownerHandler.HandleAssignByPhone)

	return nil
}
