// Package storage keeps uploaded lead files on local disk or in an S3
// compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"
)

var (
	ErrFileNotFound    = errors.New("stored file not found")
	ErrUnsupportedType = errors.New("Unsupported file type")
	ErrFileTooLarge    = errors.New("File too large")
	ErrTooManyFiles    = errors.New("Too many files")
)

// StoredFile describes an upload after it has been written to a Store.
type StoredFile struct {
	OriginalName string
	FileName     string
	MimeType     string
	Size         int64
	Path         string
	URL          string
}

type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (path, url string, err error)
	Remove(ctx context.Context, path string) error
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// StoredName is the name an upload is saved under:
// <unix millis>-<original name with whitespace runs replaced by "_">.
func StoredName(original string, now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), whitespaceRun.ReplaceAllString(original, "_"))
}
