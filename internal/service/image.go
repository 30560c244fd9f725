package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/gizikita/backend/config"
	"github.com/gizikita/backend/internal/logger"
)

// MaxUploadSize is the largest accepted scan photo.
const MaxUploadSize = 10 << 20

const scanImagePrefix = "scan-images/"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService handles scan photo storage
type ImageService struct {
	client  ObjectPutter
	bucket  string
	urlFunc func(key string) string
	log     *logger.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config, log *logger.Logger) *ImageService {
	return NewImageServiceWithClient(s3Config.Client, s3Config.BucketName, s3Config.ObjectURL, log)
}

// NewImageServiceWithClient wires an arbitrary putter, mainly for tests.
func NewImageServiceWithClient(client ObjectPutter, bucket string, urlFunc func(string) string, log *logger.Logger) *ImageService {
	return &ImageService{
		client:  client,
		bucket:  bucket,
		urlFunc: urlFunc,
		log:     log.WithComponent("images"),
	}
}

// DetectImageType returns the normalized content type of data. The declared
// type is used when it is a supported image type, otherwise the bytes are sniffed.
func DetectImageType(data []byte, declared string) (string, error) {
	declared = strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if declared == "image/jpg" {
		declared = "image/jpeg"
	}
	if _, ok := imageExtensions[declared]; ok {
		return declared, nil
	}
	sniffed := http.DetectContentType(data)
	if _, ok := imageExtensions[sniffed]; ok {
		return sniffed, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, sniffed)
}

// UploadScanImage stores a scan photo and returns its public URL.
func (s *ImageService) UploadScanImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", InputError("Image is required")
	}
	if len(data) > MaxUploadSize {
		return "", InputError("Image must be at most 10MB")
	}
	ct, err := DetectImageType(data, contentType)
	if err != nil {
		return "", InputError("Only JPEG, PNG and WebP images are supported")
	}

	key := scanImagePrefix + uuid.New().String() + imageExtensions[ct]
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ct),
	})
	if err != nil {
		s.log.Error("failed to upload image", "key", key, "error", err)
		return "", PersistenceFailure("Failed to upload image", err)
	}

	url := s.urlFunc(key)
	s.log.Info("image uploaded", "key", key, "size", len(data))
	return url, nil
}
