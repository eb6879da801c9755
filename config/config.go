package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng.
// Bao gồm cấu hình server, MongoDB, Firebase Storage, Twilio và Expo push.
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8080"`      // Địa chỉ server
	JwtSecret             string `env:"JWT_SECRET,required"`             // Bí mật ký JWT phiên đăng nhập
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"` // URI kết nối MongoDB
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`         // Tên database chính
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`     // Các origins được phép (phân cách bởi dấu phẩy)
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"` // Số request tối đa trong window (0 = tắt)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"` // Thời gian window (giây)

	// Identity Gate (OTP qua Twilio SMS)
	DefaultCountryCode string `env:"DEFAULT_COUNTRY_CODE" envDefault:"+84"` // Mã quốc gia mặc định khi số không có dấu +
	OtpCodeTTLMinutes  int    `env:"OTP_CODE_TTL_MINUTES" envDefault:"5"`   // Thời gian sống của mã OTP
	DevLoginEnabled    bool   `env:"DEV_LOGIN_ENABLED" envDefault:"false"`  // Cho phép đăng nhập bypass OTP (chỉ môi trường dev)
	TwilioAccountSID   string `env:"TWILIO_ACCOUNT_SID"`                    // Twilio Account SID
	TwilioAuthToken    string `env:"TWILIO_AUTH_TOKEN"`                     // Twilio Auth Token
	TwilioPhoneNumber  string `env:"TWILIO_PHONE_NUMBER"`                   // Số gửi SMS OTP

	// Firebase Storage (blob store cho avatar và file đính kèm)
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`       // Firebase Project ID
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"` // Đường dẫn đến service account JSON
	FirebaseStorageBucket   string `env:"FIREBASE_STORAGE_BUCKET"`   // Tên bucket lưu file

	// Push gateway (Expo)
	ExpoPushURL string `env:"EXPO_PUSH_URL" envDefault:"https://exp.host/--/api/v2/push/send"` // Endpoint gửi push
}

// IsProduction trả về true khi GO_ENV=production.
// Dùng để chặn đường đăng nhập bypass OTP trong bản release.
func IsProduction() bool {
	return os.Getenv("GO_ENV") == "production"
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env bằng cách đi lên từ thư mục hiện tại
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env theo GO_ENV
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	// Đường bypass OTP không bao giờ được bật trong production
	if cfg.DevLoginEnabled && IsProduction() {
		fmt.Printf("DEV_LOGIN_ENABLED bị bỏ qua trong môi trường production\n")
		cfg.DevLoginEnabled = false
	}

	return &cfg
}
