package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/studioaurea/atelier-backend/config"
	"github.com/studioaurea/atelier-backend/errs"
)

// PhotoService stores site photos in S3 and hands back the public URL that
// goes into a project log.
type PhotoService struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  zerolog.Logger
}

func NewPhotoService(ctx context.Context, conf map[string]string) (*PhotoService, error) {
	bucket := config.GetString(conf, "S3_BUCKET", "")
	if bucket == "" {
		return nil, errs.NewEnvironmentVariableError("S3_BUCKET")
	}

	awsConf, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errs.NewConfigError("aws", err)
	}

	baseURL := config.GetString(conf, "S3_PUBLIC_BASE_URL", "")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}

	return &PhotoService{
		client:  s3.NewFromConfig(awsConf),
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  log.With().Str("handlerName", "photoService").Logger(),
	}, nil
}

// Upload writes the object under a random key, keeping the original file
// extension, and returns the public URL.
func (s *PhotoService) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("photos/%s%s", uuid.NewString(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to upload photo")
		return "", errs.NewUploadFailedError(key, err)
	}

	url := s.baseURL + "/" + key
	s.logger.Info().Str("key", key).Str("url", url).Msg("Photo uploaded")
	return url, nil
}
