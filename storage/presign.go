package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/nijaru/autocaption/errors"
	"github.com/nijaru/autocaption/models"
	"github.com/nijaru/autocaption/validation"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPrefix = "uploads"
	DefaultTTL    = 5 * time.Minute

	keyTimeLayout = "2006_01_02_15_04_05"
)

var contentTypes = map[string]string{
	".mp4": "video/mp4",
	".avi": "video/x-msvideo",
	".mov": "video/quicktime",
	".mkv": "video/x-matroska",
	".flv": "video/x-flv",
	".wmv": "video/x-ms-wmv",
}

// ContentTypeFor returns the MIME type uploads with ext are signed for.
func ContentTypeFor(ext string) (string, bool) {
	ct, ok := contentTypes[strings.ToLower(ext)]
	return ct, ok
}

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
	PathStyle bool
	TTL       time.Duration
}

func (c Config) Configured() bool {
	return c.Bucket != ""
}

// Presigner is the part of the S3 presign client this package needs.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Uploads issues presigned PUT URLs for video uploads.
type Uploads struct {
	presigner Presigner
	cfg       Config
	now       func() time.Time
}

// New builds an S3 (or S3-compatible) presigner. Static credentials are
// used when both keys are set; otherwise the default AWS chain applies.
func New(ctx context.Context, cfg Config) (*Uploads, error) {
	if !cfg.Configured() {
		return nil, errors.Unavailable("storage.New", nil, "upload storage is not configured")
	}

	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Internal("storage.New", err, "unable to load SDK config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return NewWithPresigner(s3.NewPresignClient(client), cfg), nil
}

func NewWithPresigner(p Presigner, cfg Config) *Uploads {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Uploads{presigner: p, cfg: cfg, now: time.Now}
}

// ObjectKey returns a fresh key <prefix>/<timestamp>_<id><ext>.
func (u *Uploads) ObjectKey(ext string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	name := fmt.Sprintf("%s_%s%s", u.now().UTC().Format(keyTimeLayout), id, strings.ToLower(ext))
	return path.Join(u.cfg.Prefix, name)
}

// PresignUpload validates filename and issues a PUT URL signed for the
// content type of its extension.
func (u *Uploads) PresignUpload(ctx context.Context, filename string) (models.PresignedUploadTarget, error) {
	ext, err := validation.ValidateVideoFilename(filename)
	if err != nil {
		return models.PresignedUploadTarget{}, err
	}
	contentType, _ := ContentTypeFor(ext)
	key := u.ObjectKey(ext)

	req, err := u.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(u.cfg.TTL))
	if err != nil {
		return models.PresignedUploadTarget{}, errors.Internal("storage.PresignUpload", err, "Error generating presigned URL")
	}

	logrus.WithFields(logrus.Fields{
		"bucket":      u.cfg.Bucket,
		"key":         key,
		"contentType": contentType,
		"ttl":         u.cfg.TTL,
	}).Info("Issued upload URL")

	return models.PresignedUploadTarget{
		URL:       req.URL,
		ExpiresIn: int(u.cfg.TTL / time.Second),
	}, nil
}
