package storage

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type UploadPolicy struct {
	AllowedTypes []string
	MaxFileBytes int64
	MaxFiles     int
}

func (p UploadPolicy) allowed(mimeType string) bool {
	for _, t := range p.AllowedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// Check rejects the whole batch when any file breaks the policy.
func (p UploadPolicy) Check(headers []*multipart.FileHeader) error {
	if p.MaxFiles > 0 && len(headers) > p.MaxFiles {
		return ErrTooManyFiles
	}
	for _, h := range headers {
		if !p.allowed(h.Header.Get("Content-Type")) {
			return ErrUnsupportedType
		}
		if p.MaxFileBytes > 0 && h.Size > p.MaxFileBytes {
			return ErrFileTooLarge
		}
	}
	return nil
}

// SaveUploads writes every file to store. When one write fails the files
// already written are removed again.
func SaveUploads(ctx context.Context, store Store, headers []*multipart.FileHeader, now func() time.Time) ([]StoredFile, error) {
	saved := make([]StoredFile, 0, len(headers))
	for _, h := range headers {
		sf, err := saveOne(ctx, store, h, now())
		if err != nil {
			for _, s := range saved {
				if rmErr := store.Remove(ctx, s.Path); rmErr != nil {
					zap.L().Warn("unable to roll back stored upload", zap.String("path", s.Path), zap.Error(rmErr))
				}
			}
			return nil, err
		}
		saved = append(saved, sf)
	}
	return saved, nil
}

func saveOne(ctx context.Context, store Store, h *multipart.FileHeader, now time.Time) (StoredFile, error) {
	f, err := h.Open()
	if err != nil {
		return StoredFile{}, eris.Wrapf(err, "storage: open upload %s", h.Filename)
	}
	defer f.Close()

	name := StoredName(h.Filename, now)
	mimeType := h.Header.Get("Content-Type")

	p, url, err := store.Save(ctx, name, f, h.Size, mimeType)
	if err != nil {
		return StoredFile{}, err
	}
	return StoredFile{
		OriginalName: h.Filename,
		FileName:     name,
		MimeType:     mimeType,
		Size:         h.Size,
		Path:         p,
		URL:          url,
	}, nil
}
