package crmhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "pocket_crm/internal/api/base/handler"
	crmdto "pocket_crm/internal/api/crm/dto"
	crmsvc "pocket_crm/internal/api/crm/service"
	"pocket_crm/internal/api/middleware"
	"pocket_crm/internal/common"
	"pocket_crm/internal/logger"
)

// OwnerHandler xử lý thêm/gỡ chủ sở hữu của khách hàng
type OwnerHandler struct {
	ownerService *crmsvc.OwnerService
}

// NewOwnerHandler tạo instance mới của OwnerHandler
func NewOwnerHandler(notifier crmsvc.OwnerNotifier) (*OwnerHandler, error) {
	ownerService, err := crmsvc.NewOwnerService(notifier)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner service: %v", err)
	}
	return &OwnerHandler{
		ownerService: ownerService,
	}, nil
}

// HandleAddOwner thêm một user làm chủ sở hữu theo userId
func (h *OwnerHandler) HandleAddOwner(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actorID, err := middleware.RequireUserID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		customerID, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input crmdto.AddOwnerInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		customer, err := h.ownerService.AddOwner(c.Context(), customerID, actorID, input.UserID)
		if err == nil {
			logger.LogAction("add_owner", "customer", customerID.Hex(), c, map[string]interface{}{
				"newOwnerId": input.UserID,
			})
		}
		basehdl.HandleResponse(c, customer, err)
		return nil
	})
}

// HandleRemoveOwner gỡ một user khỏi danh sách chủ sở hữu
func (h *OwnerHandler) HandleRemoveOwner(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		customerID, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		ownerID := c.Params("ownerId")
		if ownerID == "" {
			basehdl.HandleResponse(c, nil, common.ErrRequiredField)
			return nil
		}

		customer, err := h.ownerService.RemoveOwner(c.Context(), customerID, ownerID)
		basehdl.HandleResponse(c, customer, err)
		return nil
	})
}

// HandleAssignByPhone thêm chủ sở hữu bằng cách tra user theo số điện thoại
func (h *OwnerHandler) HandleAssignByPhone(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actorID, err := middleware.RequireUserID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		customerID, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input crmdto.AssignByPhoneInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		customer, err := h.ownerService.AssignByPhoneNumber(c.Context(), customerID, actorID, input.PhoneNumber)
		basehdl.HandleResponse(c, customer, err)
		return nil
	})
}
