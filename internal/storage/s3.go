package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/trialdash/patient-api/internal/config"
	"github.com/trialdash/patient-api/pkg/metrics"
)

// SessionFile is one stored session recording: the object key, its
// creation timestamp, and whatever metadata the recording device
// embedded at upload time.
type SessionFile struct {
	Key          string
	LastModified time.Time
	Metadata     map[string]string
}

// ObjectStore lists session recording files from the trial's bucket.
type ObjectStore interface {
	ListSessionFiles(ctx context.Context) ([]SessionFile, error)
}

type S3Store struct {
	client  *s3.Client
	bucket  string
	metrics *metrics.Metrics
}

func NewS3Store(ctx context.Context, cfg config.StorageConfig, m *metrics.Metrics) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	endpoint := awsCfg.BaseEndpoint
	if cfg.Endpoint != "" {
		endpoint = aws.String(cfg.Endpoint)
	}
	region := awsCfg.Region
	if cfg.Region != "" {
		region = cfg.Region
	}

	client := s3.New(s3.Options{
		Region:       region,
		Credentials:  awsCfg.Credentials,
		HTTPClient:   awsCfg.HTTPClient,
		BaseEndpoint: endpoint,
		UsePathStyle: cfg.UsePathStyle,
	})

	return &S3Store{client: client, bucket: cfg.Bucket, metrics: m}, nil
}

// ListSessionFiles lists every object in the session bucket along with
// its user metadata. The bucket holds tens to low hundreds of files per
// trial, so a full listing per request is acceptable.
func (s *S3Store) ListSessionFiles(ctx context.Context) ([]SessionFile, error) {
	start := time.Now()

	var files []SessionFile
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.metrics.StorageOperations.WithLabelValues("list", "error").Inc()
			return nil, fmt.Errorf("failed to list session files: %w", err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			f := SessionFile{Key: *obj.Key}
			if obj.LastModified != nil {
				f.LastModified = *obj.LastModified
			}

			head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				// Metadata is optional; the listing entry is still useful.
				s.metrics.StorageOperations.WithLabelValues("head", "error").Inc()
			} else {
				f.Metadata = head.Metadata
			}

			files = append(files, f)
		}
	}

	s.metrics.StorageOperations.WithLabelValues("list", "success").Inc()
	s.metrics.StorageListLatency.Observe(time.Since(start).Seconds())
	return files, nil
}
