// Package crmhdl xử lý các request thuộc domain crm.
package crmhdl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"

	basehdl "pocket_crm/internal/api/base/handler"
	crmdto "pocket_crm/internal/api/crm/dto"
	crmsvc "pocket_crm/internal/api/crm/service"
	"pocket_crm/internal/api/middleware"
	"pocket_crm/internal/logger"
)

// CustomerHandler xử lý các request quản lý khách hàng
type CustomerHandler struct {
	customerService *crmsvc.CustomerService
}

// NewCustomerHandler tạo instance mới của CustomerHandler
func NewCustomerHandler() (*CustomerHandler, error) {
	customerService, err := crmsvc.NewCustomerService()
	if err != nil {
		return nil, fmt.Errorf("failed to create customer service: %v", err)
	}
	return &CustomerHandler{
		customerService: customerService,
	}, nil
}

// HandleCreate tạo khách hàng mới
func (h *CustomerHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := middleware.RequireUserID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input crmdto.CreateCustomerInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		customer, err := h.customerService.Create(c.Context(), userID, &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogAction("create", "customer", customer.ID.Hex(), c, nil)
		basehdl.HandleCreated(c, customer)
		return nil
	})
}

// HandleList trả về danh sách khách hàng user tạo hoặc đồng sở hữu,
// sắp xếp theo lastActivity giảm dần
func (h *CustomerHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := middleware.RequireUserID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		customers, err := h.customerService.ListForUser(c.Context(), userID)
		basehdl.HandleResponse(c, customers, err)
		return nil
	})
}

// HandleGetById lấy một khách hàng theo id
func (h *CustomerHandler) HandleGetById(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		customer, err := h.customerService.GetById(c.Context(), id)
		basehdl.HandleResponse(c, customer, err)
		return nil
	})
}

// HandleUpdate cập nhật khách hàng (partial, merge)
func (h *CustomerHandler) HandleUpdate(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input crmdto.UpdateCustomerInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		customer, err := h.customerService.Update(c.Context(), id, &input)
		basehdl.HandleResponse(c, customer, err)
		return nil
	})
}

// HandleDelete xóa khách hàng
func (h *CustomerHandler) HandleDelete(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		if err := h.customerService.Delete(c.Context(), id); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogAction("delete", "customer", id.Hex(), c, nil)
		basehdl.HandleResponse(c, nil, nil)
		return nil
	})
}

// Chu kỳ ghi keepalive xuống stream SSE để phát hiện client đã đóng kết nối
const feedKeepaliveInterval = 15 * time.Second

// HandleFeed mở một stream SSE đẩy danh sách khách hàng gộp mỗi khi có
// thay đổi. Client đóng kết nối → subscription được giải phóng.
func (h *CustomerHandler) HandleFeed(c fiber.Ctx) error {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		basehdl.HandleResponse(c, nil, err)
		return nil
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	service := h.customerService
	c.RequestCtx().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		sub, err := service.Subscribe(context.Background(), userID)
		if err != nil {
			return
		}
		// Close hủy context của subscription, đóng cả hai change stream
		defer sub.Close()

		writeFeedEvents(w, sub, feedKeepaliveInterval)
	}))
	return nil
}

// writeFeedEvents bơm các bản gộp ra stream SSE cho tới khi subscription
// đóng hoặc client ngắt kết nối. Không thể chỉ chờ trên Updates: client
// rảnh rỗi ngắt kết nối sẽ không được phát hiện cho tới sự kiện kế tiếp,
// goroutine và hai change stream bị giữ vô hạn. Ticker keepalive ghi một
// comment SSE định kỳ nên Flush lỗi (kết nối chết) luôn lộ ra trong một
// chu kỳ.
func writeFeedEvents(w *bufio.Writer, sub *crmsvc.CustomerSubscription, keepalive time.Duration) {
	ticker := time.NewTicker(keepalive)
	defer ticker.Stop()

	for {
		select {
		case customers, ok := <-sub.Updates:
			if !ok {
				return
			}
			payload, err := json.Marshal(customers)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			if err := w.Flush(); err != nil {
				return
			}
		case <-ticker.C:
			fmt.Fprintf(w, ": ping\n\n")
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}
