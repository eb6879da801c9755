package utility

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"pocket_crm/internal/common"
)

var (
	firebaseApp    *firebase.App
	storageBucket  *gcs.BucketHandle
	storageBucketN string
)

// findProjectDir tìm thư mục gốc project (thư mục chứa config/env)
func findProjectDir() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", fmt.Errorf("không tìm thấy thư mục gốc project")
		}
		currentDir = parentDir
	}
}

// InitFirebase khởi tạo Firebase Admin SDK và bucket storage mặc định.
// credentialsPath tương đối sẽ được resolve từ thư mục gốc project.
func InitFirebase(projectID, credentialsPath, bucketName string) error {
	if !filepath.IsAbs(credentialsPath) {
		projectDir, err := findProjectDir()
		if err != nil {
			return fmt.Errorf("không resolve được đường dẫn credentials: %v", err)
		}
		credentialsPath = filepath.Join(projectDir, credentialsPath)
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return fmt.Errorf("firebase credentials file not found: %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(context.Background(), &firebase.Config{
		ProjectID:     projectID,
		StorageBucket: bucketName,
	}, opt)
	if err != nil {
		return fmt.Errorf("failed to initialize Firebase app: %v", err)
	}
	firebaseApp = app

	storageClient, err := app.Storage(context.Background())
	if err != nil {
		return fmt.Errorf("failed to initialize Firebase storage: %v", err)
	}

	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return fmt.Errorf("failed to get default storage bucket: %v", err)
	}

	storageBucket = bucket
	storageBucketN = bucketName
	return nil
}

// UploadObject ghi một blob lên bucket theo path và trả về URL tải xuống.
// URL dạng firebasestorage.googleapis.com với download token để client mobile
// đọc trực tiếp không cần đăng nhập GCS.
func UploadObject(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	if storageBucket == nil {
		return "", common.NewError(common.ErrCodeRemoteService, "Blob storage chưa được khởi tạo", common.StatusServiceUnavailable, nil)
	}

	downloadToken := uuid.NewString()

	writer := storageBucket.Object(objectPath).NewWriter(ctx)
	writer.ContentType = contentType
	writer.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": downloadToken,
	}

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return "", common.NewError(common.ErrCodeRemoteService, "Không tải được file lên, vui lòng thử lại sau", common.StatusBadGateway, err)
	}
	if err := writer.Close(); err != nil {
		return "", common.NewError(common.ErrCodeRemoteService, "Không tải được file lên, vui lòng thử lại sau", common.StatusBadGateway, err)
	}

	downloadURL := fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		storageBucketN, url.PathEscape(objectPath), downloadToken,
	)
	return downloadURL, nil
}
