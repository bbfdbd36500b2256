package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/keshercrm/kesher-crm/internal/config"
	"github.com/keshercrm/kesher-crm/internal/logging"
	"github.com/keshercrm/kesher-crm/internal/types"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var (
	storageClient *minio.Client
	storageOnce   sync.Once
)

// UploadResult is the stored-object descriptor returned to clients, shaped
// to drop straight into a file field's value.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// InitStorage initializes the object storage client (singleton pattern)
func InitStorage(cfg *config.Config) error {
	var initErr error

	storageOnce.Do(func() {
		client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
			Secure: cfg.StorageUseSSL,
		})
		if err != nil {
			initErr = fmt.Errorf("failed to create storage client: %w", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		exists, err := client.BucketExists(ctx, cfg.StorageBucket)
		if err != nil {
			initErr = fmt.Errorf("storage bucket check failed: %w", err)
			return
		}
		if !exists {
			if err := client.MakeBucket(ctx, cfg.StorageBucket, minio.MakeBucketOptions{}); err != nil {
				initErr = fmt.Errorf("failed to create storage bucket: %w", err)
				return
			}
		}

		storageClient = client
	})

	return initErr
}

// IsStorageInitialized returns true if the storage client is initialized
func IsStorageInitialized() bool {
	return storageClient != nil
}

// UploadFile stores an uploaded file under a random object key and returns
// its public URL together with the original filename. The original name is
// kept only in the result; the object key is a UUID so collisions and
// unsafe characters in user filenames are a non-issue.
func UploadFile(ctx context.Context, cfg *config.Config, filename string, size int64, contentType string, r io.Reader) (*UploadResult, error) {
	if storageClient == nil {
		return nil, types.External("אחסון קבצים אינו מוגדר במערכת")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectKey := fmt.Sprintf("uploads/%s%s", uuid.NewString(), ext)

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := storageClient.PutObject(ctx, cfg.StorageBucket, objectKey, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logging.Log.Error("file upload failed",
			zap.String("object", objectKey),
			zap.Error(err))
		return nil, types.External("העלאת הקובץ נכשלה")
	}

	base := cfg.StorageBaseURL
	if base == "" {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.StorageEndpoint, cfg.StorageBucket)
	}

	return &UploadResult{
		URL:      fmt.Sprintf("%s/%s", strings.TrimSuffix(base, "/"), objectKey),
		Filename: filename,
	}, nil
}
