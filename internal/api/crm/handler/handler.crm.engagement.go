package crmhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "pocket_crm/internal/api/base/handler"
	crmdto "pocket_crm/internal/api/crm/dto"
	crmsvc "pocket_crm/internal/api/crm/service"
)

// EngagementHandler xử lý các request quản lý engagement của khách hàng
type EngagementHandler struct {
	engagementService *crmsvc.EngagementService
}

// NewEngagementHandler tạo instance mới của EngagementHandler
func NewEngagementHandler(notifier crmsvc.Notifier) (*EngagementHandler, error) {
	engagementService, err := crmsvc.NewEngagementService(notifier)
	if err != nil {
		return nil, fmt.Errorf("failed to create engagement service: %v", err)
	}
	return &EngagementHandler{
		engagementService: engagementService,
	}, nil
}

// HandleAdd tạo engagement mới cho khách hàng
func (h *EngagementHandler) HandleAdd(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		customerID, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input crmdto.CreateEngagementInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		engagement, err := h.engagementService.Add(c.Context(), customerID, &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleCreated(c, engagement)
		return nil
	})
}

// HandleUpdate cập nhật engagement (partial, merge). Engagement phải thuộc
// đúng khách hàng trên đường dẫn.
func (h *EngagementHandler) HandleUpdate(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		customerID, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		engagementID, err := basehdl.ParseObjectIDParam(c, "engagementId")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input crmdto.UpdateEngagementInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		engagement, err := h.engagementService.Update(c.Context(), customerID, engagementID, &input)
		basehdl.HandleResponse(c, engagement, err)
		return nil
	})
}

// HandleList trả về toàn bộ engagement của một khách hàng
func (h *EngagementHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		customerID, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		engagements, err := h.engagementService.List(c.Context(), customerID)
		basehdl.HandleResponse(c, engagements, err)
		return nil
	})
}
