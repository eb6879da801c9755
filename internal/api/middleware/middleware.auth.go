// Package middleware chứa các middleware dùng chung cho API.
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	basehdl "pocket_crm/internal/api/base/handler"
	"pocket_crm/internal/common"
	"pocket_crm/internal/global"
)

// LocalsUserID là key lưu userId trong fiber locals sau khi xác thực thành công
const LocalsUserID = "userId"

// SessionClaims là claims của token phiên đăng nhập
type SessionClaims struct {
	UserID      string `json:"userId"`
	PhoneNumber string `json:"phoneNumber"`
	jwt.RegisteredClaims
}

// AuthMiddleware xác thực token phiên đăng nhập từ header Authorization.
// Token hợp lệ → lưu userId vào locals cho handler phía sau; không hợp lệ →
// trả về 401 với thông báo hành động được.
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		// Header dạng "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			basehdl.HandleResponse(c, nil, common.ErrTokenInvalid)
			return nil
		}

		userID, err := ParseSessionToken(tokenString)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		c.Locals(LocalsUserID, userID)
		return c.Next()
	}
}

// ParseSessionToken giải mã và kiểm tra token phiên, trả về userId.
func ParseSessionToken(tokenString string) (string, error) {
	claims := new(SessionClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return []byte(global.ServerConfig.JwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == "" {
		return "", common.ErrTokenInvalid
	}
	return claims.UserID, nil
}

// RequireUserID lấy userId đã được AuthMiddleware lưu vào locals.
func RequireUserID(c fiber.Ctx) (string, error) {
	userID, ok := c.Locals(LocalsUserID).(string)
	if !ok || userID == "" {
		return "", common.ErrNotAuthenticated
	}
	return userID, nil
}
