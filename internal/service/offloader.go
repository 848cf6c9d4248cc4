package service

import (
	"context"
	"mime"
	"path/filepath"
	"strings"

	apperrors "github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/errors"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/models"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/tracing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// ObjectStore stores media bytes under bucket/object names.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, object string, data []byte, contentType string) error
}

// FileDownloader fetches attachment bytes from the platform.
type FileDownloader interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// Offloader moves media attachments into object storage. The destination
// bucket is the lowercased media type; the object name is the attachment's
// stable file id plus its original extension.
type Offloader struct {
	store       ObjectStore
	files       FileDownloader
	maxFileSize int64
	logger      *logrus.Logger
}

func NewOffloader(store ObjectStore, files FileDownloader, maxFileSize int64, logger *logrus.Logger) *Offloader {
	return &Offloader{
		store:       store,
		files:       files,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Offload downloads the attachment and uploads it to object storage. An
// attachment whose declared size reaches the limit is skipped without being
// downloaded, returning a nil locator and no error. Any download or upload
// failure propagates to the caller: a published message must never point at
// an object that was not stored.
func (o *Offloader) Offload(ctx context.Context, att *models.Attachment, mediaType models.MediaType) (*models.StorageLocator, error) {
	if att.SizeBytes >= o.maxFileSize {
		o.logger.WithFields(logrus.Fields{
			"file_id":    att.FileID,
			"size_bytes": att.SizeBytes,
			"max_bytes":  o.maxFileSize,
		}).Debug("Attachment exceeds size limit, skipping offload")
		return nil, nil
	}

	ctx, span := tracing.StartSpan(ctx, "media_offload",
		attribute.String("media.type", string(mediaType)),
		attribute.Int64("media.size_bytes", att.SizeBytes),
	)
	defer span.End()

	data, err := o.files.DownloadFile(ctx, att.FileID)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMediaDownload, "failed to download attachment").
			WithContext("file_id", att.FileID)
	}

	bucket := strings.ToLower(string(mediaType))
	object := objectName(att)

	if err := o.store.EnsureBucket(ctx, bucket); err != nil {
		tracing.RecordError(ctx, err)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMediaUpload, "failed to ensure bucket").
			WithContext("bucket", bucket)
	}

	if err := o.store.PutObject(ctx, bucket, object, data, att.MimeType); err != nil {
		tracing.RecordError(ctx, err)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMediaUpload, "failed to upload attachment").
			WithContext("bucket", bucket).
			WithContext("object", object)
	}

	o.logger.WithFields(logrus.Fields{
		"bucket":     bucket,
		"object":     object,
		"size_bytes": len(data),
	}).Debug("Attachment offloaded")

	return &models.StorageLocator{Bucket: bucket, Object: object}, nil
}

// objectName derives the stored object name from the attachment's stable
// file id and its original extension. The extension comes from the file
// name when present, falling back to the mime type, else empty.
func objectName(att *models.Attachment) string {
	id := att.FileUniqueID
	if id == "" {
		id = att.FileID
	}
	return id + objectExtension(att)
}

func objectExtension(att *models.Attachment) string {
	if ext := filepath.Ext(att.FileName); ext != "" {
		return ext
	}
	if att.MimeType != "" {
		if exts, err := mime.ExtensionsByType(att.MimeType); err == nil && len(exts) > 0 {
			return exts[0]
		}
	}
	return ""
}
