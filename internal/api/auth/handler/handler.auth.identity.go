// Package authhdl xử lý các request thuộc domain auth.
package authhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "pocket_crm/internal/api/auth/dto"
	authsvc "pocket_crm/internal/api/auth/service"
	basehdl "pocket_crm/internal/api/base/handler"
	"pocket_crm/internal/api/middleware"
	"pocket_crm/internal/logger"
)

// IdentityHandler xử lý các request xác thực danh tính (OTP login)
type IdentityHandler struct {
	identityService *authsvc.IdentityService
	userService     *authsvc.UserService
}

// NewIdentityHandler tạo instance mới của IdentityHandler
func NewIdentityHandler(sms authsvc.SmsSender) (*IdentityHandler, error) {
	identityService, err := authsvc.NewIdentityService(sms)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity service: %v", err)
	}
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	return &IdentityHandler{
		identityService: identityService,
		userService:     userService,
	}, nil
}

// HandleRequestOtp phát hành phiên xác thực OTP và gửi mã qua SMS
func (h *IdentityHandler) HandleRequestOtp(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input authdto.RequestOtpInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.identityService.RequestChallenge(c.Context(), &input)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandleConfirmOtp xác nhận mã OTP và cấp token phiên đăng nhập
func (h *IdentityHandler) HandleConfirmOtp(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input authdto.ConfirmOtpInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.identityService.ConfirmChallenge(c.Context(), &input)
		if err == nil {
			logger.LogAction("login", "user", result.UserID, c, map[string]interface{}{
				"isNewUser": result.IsNewUser,
			})
		}
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandleDevLogin đăng nhập phát triển không qua SMS (chỉ môi trường dev)
func (h *IdentityHandler) HandleDevLogin(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input authdto.DevLoginInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.identityService.DevLogin(c.Context(), &input)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandleGetProfile lấy hồ sơ của người dùng hiện tại
func (h *IdentityHandler) HandleGetProfile(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := middleware.RequireUserID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.userService.FindOneById(c.Context(), objID)
		basehdl.HandleResponse(c, user, err)
		return nil
	})
}

// HandleUpdateProfile cập nhật hồ sơ người dùng hiện tại
func (h *IdentityHandler) HandleUpdateProfile(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := middleware.RequireUserID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input authdto.UpdateProfileInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.userService.UpdateProfile(c.Context(), objID, &input)
		basehdl.HandleResponse(c, user, err)
		return nil
	})
}

// HandleRegisterPushToken đăng ký token push của thiết bị cho user hiện tại
func (h *IdentityHandler) HandleRegisterPushToken(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := middleware.RequireUserID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input authdto.RegisterPushTokenInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.userService.AddPushToken(c.Context(), objID, input.Token)
		basehdl.HandleResponse(c, user, err)
		return nil
	})
}
