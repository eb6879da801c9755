package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"pocket_crm_tests/utils"

	"github.com/stretchr/testify/assert"
)

// waitForHealth chờ server sẵn sàng trước khi chạy test
func waitForHealth(baseURL string, attempts int, interval time.Duration, t *testing.T) {
	for i := 0; i < attempts; i++ {
		resp, err := http.Get(baseURL + "/system/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(interval)
	}
	t.Fatalf("❌ Server không sẵn sàng tại %s sau %d lần thử", baseURL, attempts)
}

// devLogin lấy token phiên qua đường dev-login (server phải chạy với
// DEV_LOGIN_ENABLED=true)
func devLogin(client *utils.HTTPClient, phone string, t *testing.T) string {
	resp, body, err := client.POST("/auth/dev-login", map[string]interface{}{
		"phoneNumber": phone,
	})
	if err != nil {
		t.Fatalf("❌ Lỗi khi dev-login: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("❌ dev-login thất bại (status: %d, body: %s)", resp.StatusCode, string(body))
	}

	var result map[string]interface{}
	assert.NoError(t, json.Unmarshal(body, &result), "Phải parse được JSON response")
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("❌ dev-login không trả về data: %s", string(body))
	}
	token, _ := data["token"].(string)
	assert.NotEmpty(t, token, "Token phiên không được rỗng")
	return token
}

// TestCrmCustomerFlow kiểm tra luồng chính: đăng nhập → tạo khách hàng →
// engagement → chủ sở hữu → xóa
func TestCrmCustomerFlow(t *testing.T) {
	baseURL := "http://localhost:8080/api/v1"
	waitForHealth(baseURL, 10, 1*time.Second, t)

	client := utils.NewHTTPClient(baseURL, 10)
	phone := fmt.Sprintf("+8491%07d", time.Now().UnixNano()%10000000)
	token := devLogin(client, phone, t)
	client.SetToken(token)

	var customerID string

	t.Run("CREATE - Tạo khách hàng", func(t *testing.T) {
		payload := map[string]interface{}{
			"name":  fmt.Sprintf("Khách Test %d", time.Now().UnixNano()),
			"phone": fmt.Sprintf("+8492%07d", time.Now().UnixNano()%10000000),
			"tags":  []string{" vip ", "", "lead"},
		}

		resp, body, err := client.POST("/customers/", payload)
		if err != nil {
			t.Fatalf("❌ Lỗi khi tạo khách hàng: %v", err)
		}
		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			t.Fatalf("❌ CREATE khách hàng thất bại (status: %d, body: %s)", resp.StatusCode, string(body))
		}

		var result map[string]interface{}
		assert.NoError(t, json.Unmarshal(body, &result), "Phải parse được JSON response")
		assert.Equal(t, "success", result["status"], "Status phải là success")

		data, ok := result["data"].(map[string]interface{})
		if assert.True(t, ok, "Response phải có data") {
			customerID, _ = data["id"].(string)
			assert.NotEmpty(t, customerID, "Khách hàng phải có id")

			// Tag phải được chuẩn hóa: trim và bỏ rỗng
			tags, _ := data["tags"].([]interface{})
			assert.Len(t, tags, 2, "Tag rỗng phải bị loại, tag còn lại phải được trim")

			// Người tạo phải nằm trong ownerIds ngay từ lúc tạo
			owners, _ := data["ownerIds"].([]interface{})
			assert.NotEmpty(t, owners, "ownerIds phải chứa người tạo")
		}
	})

	t.Run("LIST - Danh sách chứa khách hàng vừa tạo", func(t *testing.T) {
		if customerID == "" {
			t.Skip("Skipping: Chưa có customer ID")
		}
		resp, body, err := client.GET("/customers/")
		if err != nil {
			t.Fatalf("❌ Lỗi khi lấy danh sách: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "LIST phải trả về 200, body: %s", string(body))

		var result map[string]interface{}
		assert.NoError(t, json.Unmarshal(body, &result))
		data, _ := result["data"].([]interface{})
		found := false
		for _, item := range data {
			if m, ok := item.(map[string]interface{}); ok && m["id"] == customerID {
				found = true
			}
		}
		assert.True(t, found, "Danh sách phải chứa khách hàng vừa tạo")
	})

	var engagementID string

	t.Run("ENGAGEMENT - Tạo và cập nhật trạng thái", func(t *testing.T) {
		if customerID == "" {
			t.Skip("Skipping: Chưa có customer ID")
		}

		resp, body, err := client.POST(fmt.Sprintf("/customers/%s/engagements", customerID), map[string]interface{}{
			"title":  "Báo giá lần đầu",
			"status": "open",
		})
		if err != nil {
			t.Fatalf("❌ Lỗi khi tạo engagement: %v", err)
		}
		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			t.Fatalf("❌ CREATE engagement thất bại (status: %d, body: %s)", resp.StatusCode, string(body))
		}

		var result map[string]interface{}
		assert.NoError(t, json.Unmarshal(body, &result))
		if data, ok := result["data"].(map[string]interface{}); ok {
			engagementID, _ = data["id"].(string)
			assert.Equal(t, "open", data["status"], "Engagement mới phải có status open")
		}

		if engagementID == "" {
			t.Fatal("❌ Không lấy được engagement ID")
		}

		// Cập nhật trạng thái open → won
		resp, body, err = client.PUT(fmt.Sprintf("/customers/%s/engagements/%s", customerID, engagementID), map[string]interface{}{
			"status": "won",
		})
		if err != nil {
			t.Fatalf("❌ Lỗi khi cập nhật engagement: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "UPDATE engagement phải trả về 200, body: %s", string(body))

		assert.NoError(t, json.Unmarshal(body, &result))
		if data, ok := result["data"].(map[string]interface{}); ok {
			assert.Equal(t, "won", data["status"], "Status phải đổi thành won")
		}

		// Status không hợp lệ phải bị từ chối
		resp, body, err = client.PUT(fmt.Sprintf("/customers/%s/engagements/%s", customerID, engagementID), map[string]interface{}{
			"status": "khong-hop-le",
		})
		if err != nil {
			t.Fatalf("❌ Lỗi khi gửi status không hợp lệ: %v", err)
		}
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "Status lạ phải bị từ chối 400, body: %s", string(body))
	})

	t.Run("OWNER - Không gỡ được chủ sở hữu cuối cùng", func(t *testing.T) {
		if customerID == "" {
			t.Skip("Skipping: Chưa có customer ID")
		}

		// Lấy lại khách hàng để biết owner hiện tại
		resp, body, err := client.GET(fmt.Sprintf("/customers/%s", customerID))
		if err != nil {
			t.Fatalf("❌ Lỗi khi đọc khách hàng: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]interface{}
		assert.NoError(t, json.Unmarshal(body, &result))
		data, _ := result["data"].(map[string]interface{})
		owners, _ := data["ownerIds"].([]interface{})
		if len(owners) != 1 {
			t.Skipf("Skipping: Kỳ vọng 1 owner, có %d", len(owners))
		}
		ownerID, _ := owners[0].(string)

		resp, body, err = client.DELETE(fmt.Sprintf("/customers/%s/owners/%s", customerID, ownerID))
		if err != nil {
			t.Fatalf("❌ Lỗi khi gỡ owner: %v", err)
		}
		assert.Equal(t, http.StatusConflict, resp.StatusCode, "Gỡ owner cuối cùng phải bị chặn 409, body: %s", string(body))
	})

	t.Run("DELETE - Xóa khách hàng", func(t *testing.T) {
		if customerID == "" {
			t.Skip("Skipping: Chưa có customer ID")
		}

		resp, body, err := client.DELETE(fmt.Sprintf("/customers/%s", customerID))
		if err != nil {
			t.Fatalf("❌ Lỗi khi xóa khách hàng: %v", err)
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode, "DELETE phải trả về 200, body: %s", string(body))

		// Đọc lại phải ra 404
		resp, _, err = client.GET(fmt.Sprintf("/customers/%s", customerID))
		if err != nil {
			t.Fatalf("❌ Lỗi khi đọc lại khách hàng: %v", err)
		}
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "Khách hàng đã xóa phải trả về 404")
	})
}

// TestIdentityGate kiểm tra các đường từ chối của Identity Gate
func TestIdentityGate(t *testing.T) {
	baseURL := "http://localhost:8080/api/v1"
	waitForHealth(baseURL, 10, 1*time.Second, t)

	client := utils.NewHTTPClient(baseURL, 10)

	t.Run("Số điện thoại sai định dạng bị từ chối", func(t *testing.T) {
		resp, body, err := client.POST("/auth/request-otp", map[string]interface{}{
			"phoneNumber": "abc",
		})
		if err != nil {
			t.Fatalf("❌ Lỗi khi gửi request-otp: %v", err)
		}
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "Số sai định dạng phải trả về 400, body: %s", string(body))
	})

	t.Run("Mã OTP bịa bị từ chối", func(t *testing.T) {
		resp, body, err := client.POST("/auth/confirm-otp", map[string]interface{}{
			"challengeId": "khong-ton-tai",
			"code":        "000000",
		})
		if err != nil {
			t.Fatalf("❌ Lỗi khi gửi confirm-otp: %v", err)
		}
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "Phiên không tồn tại phải trả về 401, body: %s", string(body))
	})

	t.Run("Route bảo vệ từ chối khi thiếu token", func(t *testing.T) {
		resp, body, err := client.GET("/customers/")
		if err != nil {
			t.Fatalf("❌ Lỗi khi gọi route bảo vệ: %v", err)
		}
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "Thiếu token phải trả về 401, body: %s", string(body))
	})
}
