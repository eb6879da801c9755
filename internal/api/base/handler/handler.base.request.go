package basehdl

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pocket_crm/internal/common"
	"pocket_crm/internal/global"
)

// ParseRequestBody đọc JSON body vào struct đích và chạy validate theo tag.
// Body hỏng hoặc validate fail đều trả về lỗi taxonomy 400.
func ParseRequestBody(c fiber.Ctx, out interface{}) error {
	if err := json.Unmarshal(c.Body(), out); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err)
	}
	if err := global.Validate.Struct(out); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	return nil
}

// ParseObjectIDParam đọc một path param dạng ObjectID hex.
func ParseObjectIDParam(c fiber.Ctx, name string) (primitive.ObjectID, error) {
	id := c.Params(name)
	if id == "" {
		return primitive.NilObjectID, common.ErrRequiredField
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, err)
	}
	return oid, nil
}
