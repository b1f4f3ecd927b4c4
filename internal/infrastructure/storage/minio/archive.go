// Package minio archives exported audit reports to S3-compatible object
// storage.
package minio

import (
	"bytes"
	"context"
	"fmt"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/wattwise/HomeAudit-Intelligence/internal/config"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

// Archiver writes report exports to a bucket.  Archiving is best-effort for
// the pipeline: callers log and continue when it fails.
type Archiver struct {
	client *miniogo.Client
	bucket string
	log    logging.Logger
}

// NewArchiver constructs an Archiver and ensures the configured bucket
// exists.
func NewArchiver(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Archiver, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeReportArchiveError, "failed to create object storage client")
	}

	a := &Archiver{client: client, bucket: cfg.Bucket, log: log}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeReportArchiveError, "failed to check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, miniogo.MakeBucketOptions{}); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeReportArchiveError, "failed to create bucket")
		}
		log.Info("report archive bucket created", logging.String("bucket", cfg.Bucket))
	}

	return a, nil
}

// Store writes one export and returns its object name.  Exports are grouped
// by audit so repeated exports of the same audit and format overwrite.
func (a *Archiver) Store(ctx context.Context, auditID common.ID, format string, contentType string, data []byte) (string, error) {
	object := fmt.Sprintf("reports/%s/report.%s", auditID, format)

	_, err := a.client.PutObject(ctx, a.bucket, object,
		bytes.NewReader(data), int64(len(data)),
		miniogo.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeReportArchiveError, "failed to archive report export").
			WithDetail(object)
	}

	a.log.Debug("report export archived",
		logging.String("bucket", a.bucket),
		logging.String("object", object),
		logging.Int("bytes", len(data)))
	return object, nil
}
