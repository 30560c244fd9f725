package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client        *s3.Client
	BucketName    string
	PublicBaseURL string
}

// LoadAWSConfig builds the shared AWS configuration. Static credentials are
// used when both keys are set, otherwise the default provider chain applies.
func LoadAWSConfig(ctx context.Context, st StorageSettings) (aws.Config, error) {
	region := st.Region
	if region == "" {
		region = "auto"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if st.AccessKey != "" && st.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(st.AccessKey, st.SecretKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

// NewS3Config initializes the S3 client. A custom endpoint (Cloudflare R2, MinIO)
// switches the client to path style addressing.
func NewS3Config(ctx context.Context, st StorageSettings) (*S3Config, error) {
	if st.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is not configured")
	}

	awsCfg, err := LoadAWSConfig(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if st.Endpoint != "" {
			o.BaseEndpoint = aws.String(st.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Config{
		Client:        client,
		BucketName:    st.Bucket,
		PublicBaseURL: publicBaseURL(st),
	}, nil
}

// NewRekognitionClient creates the client used by the label based detector.
func NewRekognitionClient(ctx context.Context, st StorageSettings) (*rekognition.Client, error) {
	awsCfg, err := LoadAWSConfig(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return rekognition.NewFromConfig(awsCfg), nil
}

// ObjectURL returns the public URL of an object key.
func (s *S3Config) ObjectURL(key string) string {
	return strings.TrimRight(s.PublicBaseURL, "/") + "/" + key
}

func publicBaseURL(st StorageSettings) string {
	if st.PublicBaseURL != "" {
		return st.PublicBaseURL
	}
	if st.Endpoint != "" {
		return strings.TrimRight(st.Endpoint, "/") + "/" + st.Bucket
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com", st.Bucket)
}
