package crmhdl

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v3"

	basehdl "pocket_crm/internal/api/base/handler"
	crmdto "pocket_crm/internal/api/crm/dto"
	crmsvc "pocket_crm/internal/api/crm/service"
	"pocket_crm/internal/api/middleware"
	"pocket_crm/internal/common"
)

// AttachmentHandler xử lý upload và liệt kê file đính kèm của khách hàng
type AttachmentHandler struct {
	attachmentService *crmsvc.AttachmentService
}

// NewAttachmentHandler tạo instance mới của AttachmentHandler
func NewAttachmentHandler() (*AttachmentHandler, error) {
	attachmentService, err := crmsvc.NewAttachmentService(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment service: %v", err)
	}
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}, nil
}

// HandleUpload nhận file qua multipart form (field "file") và đẩy lên blob store
func (h *AttachmentHandler) HandleUpload(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := middleware.RequireUserID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		customerID, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ErrRequiredField)
			return nil
		}
		file, err := fileHeader.Open()
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ErrEmptyFile)
			return nil
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ErrEmptyFile)
			return nil
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		attachment, err := h.attachmentService.Upload(c.Context(), userID, customerID, fileHeader.Filename, contentType, data)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleCreated(c, attachment)
		return nil
	})
}

// HandleList trả về metadata toàn bộ file đính kèm của một khách hàng
func (h *AttachmentHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		customerID, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		attachments, err := h.attachmentService.List(c.Context(), customerID)
		basehdl.HandleResponse(c, attachments, err)
		return nil
	})
}

// HandleSetAvatar nhận ảnh đại diện qua multipart form (field "image") kèm
// trường "imageUri" khai báo nguồn ảnh, rồi ghi URL vào khách hàng
func (h *AttachmentHandler) HandleSetAvatar(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := middleware.RequireUserID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		customerID, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		input := crmdto.UploadAvatarInput{ImageURI: c.FormValue("imageUri")}
		if input.ImageURI == "" {
			basehdl.HandleResponse(c, nil, common.ErrInvalidImageSource)
			return nil
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ErrRequiredField)
			return nil
		}
		file, err := fileHeader.Open()
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ErrEmptyFile)
			return nil
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ErrEmptyFile)
			return nil
		}

		url, err := h.attachmentService.SetAvatar(c.Context(), userID, customerID, input.ImageURI, data)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, fiber.Map{"avatarUrl": url}, nil)
		return nil
	})
}
