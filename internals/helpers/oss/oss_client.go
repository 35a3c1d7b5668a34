package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// ErrNotConfigured: env OSS belum lengkap; arsip export dilewati.
var ErrNotConfigured = errors.New("oss: missing env ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	PublicBase string
	Prefix     string // mis. "exports"
}

func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := getEnv("ALI_OSS_ENDPOINT")
	ak := getEnv("ALI_OSS_ACCESS_KEY")
	sk := getEnv("ALI_OSS_SECRET_KEY")
	sts := getEnv("ALI_OSS_SECURITY_TOKEN")
	bucketName := getEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, ErrNotConfigured
	}

	var (
		client *oss.Client
		err    error
	)
	if sts != "" {
		client, err = oss.New(endpoint, ak, sk, oss.SecurityToken(sts))
	} else {
		client, err = oss.New(endpoint, ak, sk)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// Verifikasi ringan lokasi bucket
	if loc, err := client.GetBucketLocation(bucketName); err != nil {
		var se oss.ServiceError
		if errors.As(err, &se) && se.StatusCode == 403 && se.Code == "AccessDenied" {
			log.Printf("[OSS] warn: skip location check (AccessDenied, bucket=%s)", bucketName)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", bucketName, loc)
	}

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		PublicBase: getEnv("ALI_OSS_PUBLIC_BASE"),
		Prefix:     strings.Trim(prefix, "/"),
	}, nil
}

func (s *OSSService) UploadStream(ctx context.Context, key string, data []byte, contentType string, filename string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.CacheControl("private, max-age=0"),
	}
	if filename != "" {
		opts = append(opts, oss.ContentDisposition(`attachment; filename="`+filename+`"`))
	}
	return s.Bucket.PutObject(key, bytes.NewReader(data), opts...)
}

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBase != "" {
		return strings.TrimRight(s.PublicBase, "/") + "/" + key
	}
	if s.Endpoint == "" || s.BucketName == "" {
		return ""
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectKey: <prefix>/<yyyy>/<mm>/<rand>-<filename>
func (s *OSSService) ObjectKey(filename string, now time.Time) string {
	name := strings.Trim(unsafeKeyChars.ReplaceAllString(filename, "-"), "-")
	if name == "" {
		name = "export"
	}
	rnd := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return path.Join(s.Prefix, now.Format("2006"), now.Format("01"), rnd+"-"+name)
}

// Archive mengunggah dokumen hasil export dan mengembalikan URL publiknya.
func (s *OSSService) Archive(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	key := s.ObjectKey(filename, time.Now())
	if err := s.UploadStream(ctx, key, data, contentType, filename); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}
