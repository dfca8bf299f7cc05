// Package export stores generated reports in a blob store: a local
// directory or an S3 compatible bucket.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gartstein/zoo/internal/zoo/config"
	e "github.com/gartstein/zoo/internal/zoo/errors"
	"github.com/gartstein/zoo/internal/zoo/models"
)

// Store keeps report bodies under slash separated keys.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// Info describes a stored object.
type Info struct {
	Key  string
	Size int64
	// Location is a path or URL to the object.
	Location string
}

// Open builds the store selected by the export settings.
func Open(ctx context.Context, cfg config.Export) (Store, error) {
	switch cfg.Driver {
	case "", config.ExportFS:
		return NewFSStore(cfg.FSRoot)
	case config.ExportS3:
		return NewS3Store(ctx, S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("%w: unknown export driver %q", e.ErrInvalidInput, cfg.Driver)
	}
}

// ReportKey names the object a report of section generated at t is kept under.
func ReportKey(section models.Section, t time.Time) string {
	return fmt.Sprintf("reports/%s/%s.txt", section, t.UTC().Format("20060102T150405Z"))
}
