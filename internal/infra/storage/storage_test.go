package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upload struct {
	name        string
	contentType string
	body        string
}

func multipartHeaders(t *testing.T, files ...upload) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["files"]
}

func memStore() *LocalStore {
	return &LocalStore{fs: afero.NewMemMapFs(), dir: "uploads", publicPrefix: "/uploads"}
}

func TestStoredName(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "1700000000123-my_lead_list.csv", StoredName("my   lead \t list.csv", at))
	assert.Equal(t, "1700000000123-report.pdf", StoredName("report.pdf", at))
}

func TestUploadPolicy_Check(t *testing.T) {
	policy := UploadPolicy{
		AllowedTypes: []string{"text/csv", "application/pdf"},
		MaxFileBytes: 8,
		MaxFiles:     2,
	}

	ok := multipartHeaders(t, upload{"a.csv", "text/csv", "a,b"})
	assert.NoError(t, policy.Check(ok))

	badType := multipartHeaders(t, upload{"a.csv", "text/csv", "a"}, upload{"x.exe", "application/octet-stream", "x"})
	assert.ErrorIs(t, policy.Check(badType), ErrUnsupportedType)

	tooBig := multipartHeaders(t, upload{"a.pdf", "application/pdf", "0123456789"})
	assert.ErrorIs(t, policy.Check(tooBig), ErrFileTooLarge)

	tooMany := multipartHeaders(t,
		upload{"a.csv", "text/csv", "a"},
		upload{"b.csv", "text/csv", "b"},
		upload{"c.csv", "text/csv", "c"},
	)
	assert.ErrorIs(t, policy.Check(tooMany), ErrTooManyFiles)
}

func TestLocalStore_SaveAndRemove(t *testing.T) {
	s := memStore()
	ctx := context.Background()

	p, url, err := s.Save(ctx, "1-a.csv", bytes.NewBufferString("a,b"), 3, "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "uploads/1-a.csv", p)
	assert.Equal(t, "/uploads/1-a.csv", url)

	data, err := afero.ReadFile(s.fs, "/1-a.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))

	require.NoError(t, s.Remove(ctx, p))
	assert.ErrorIs(t, s.Remove(ctx, p), ErrFileNotFound)
}

func TestLocalStore_Handler(t *testing.T) {
	s := memStore()
	_, _, err := s.Save(context.Background(), "1-a.csv", bytes.NewBufferString("a,b"), 3, "text/csv")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/1-a.csv", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a,b", rec.Body.String())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing.csv", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type failingStore struct {
	*LocalStore
	failOn string
}

func (f *failingStore) Save(ctx context.Context, name string, r io.Reader, size int64, ct string) (string, string, error) {
	if strings.HasSuffix(name, f.failOn) {
		return "", "", errors.New("disk full")
	}
	return f.LocalStore.Save(ctx, name, r, size, ct)
}

func TestSaveUploads(t *testing.T) {
	s := memStore()
	now := func() time.Time { return time.UnixMilli(42) }
	headers := multipartHeaders(t, upload{"my list.csv", "text/csv", "a,b"}, upload{"deck.pdf", "application/pdf", "%PDF"})

	files, err := SaveUploads(context.Background(), s, headers, now)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "my list.csv", files[0].OriginalName)
	assert.Equal(t, "42-my_list.csv", files[0].FileName)
	assert.Equal(t, "text/csv", files[0].MimeType)
	assert.Equal(t, int64(3), files[0].Size)
	assert.Equal(t, "uploads/42-my_list.csv", files[0].Path)
	assert.Equal(t, "/uploads/42-deck.pdf", files[1].URL)
}

func TestSaveUploads_RollsBackOnFailure(t *testing.T) {
	s := &failingStore{LocalStore: memStore(), failOn: "deck.pdf"}
	now := func() time.Time { return time.UnixMilli(42) }
	headers := multipartHeaders(t, upload{"list.csv", "text/csv", "a,b"}, upload{"deck.pdf", "application/pdf", "%PDF"})

	_, err := SaveUploads(context.Background(), s, headers, now)
	require.Error(t, err)

	exists, err := afero.Exists(s.fs, "/42-list.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

type fakeObjects struct {
	objects map[string][]byte
	buckets map[string]bool
}

func (f *fakeObjects) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeObjects) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.buckets[bucket] = true
	return nil
}

func (f *fakeObjects) PutObject(_ context.Context, _, key string, r io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[key] = data
	return minio.UploadInfo{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeObjects) StatObject(_ context.Context, _, key string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if _, ok := f.objects[key]; !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", Key: key}
	}
	return minio.ObjectInfo{Key: key}, nil
}

func (f *fakeObjects) RemoveObject(_ context.Context, _, key string, _ minio.RemoveObjectOptions) error {
	delete(f.objects, key)
	return nil
}

func TestMinIOStore(t *testing.T) {
	objects := &fakeObjects{objects: map[string][]byte{}, buckets: map[string]bool{}}
	s := &MinIOStore{client: objects, bucket: "leads", region: "us-east-1", baseURL: "http://minio:9000/leads"}
	ctx := context.Background()

	require.NoError(t, s.EnsureBucket(ctx))
	assert.True(t, objects.buckets["leads"])

	p, url, err := s.Save(ctx, "1-a.csv", bytes.NewBufferString("a,b"), 3, "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "1-a.csv", p)
	assert.Equal(t, "http://minio:9000/leads/1-a.csv", url)

	require.NoError(t, s.Remove(ctx, p))
	assert.ErrorIs(t, s.Remove(ctx, p), ErrFileNotFound)
}
