package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/campus-events-api/internal/application/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (s *recordingStore) Upload(_ context.Context, bucket, key string, r io.Reader, contentType string) error {
	if s.err != nil {
		return s.err
	}
	s.bucket, s.key, s.contentType = bucket, key, contentType
	b, err := io.ReadAll(r)
	s.body = b
	return err
}

func (s *recordingStore) PublicURL(bucket, key string) string {
	return "https://cdn.campus.edu/" + bucket + "/" + key
}

func newUploadHandler(store upload.ObjectStore) *UploadHandler {
	return NewUploadHandler(upload.NewService(upload.ServiceDeps{
		Store:          store,
		Buckets:        []string{"event-images", "avatars"},
		DefaultBucket:  "event-images",
		PlaceholderURL: "https://placehold.co/800x450",
	}))
}

func multipartRequest(t *testing.T, contentType string, payload []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="poster"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload_RelaysToStore(t *testing.T) {
	store := &recordingStore{}
	h := newUploadHandler(store)

	rr := httptest.NewRecorder()
	h.Upload(rr, multipartRequest(t, "image/png", []byte("png-bytes"), map[string]string{"userId": "u1", "bucket": "avatars"}))

	require.Equal(t, http.StatusOK, rr.Code)
	var res upload.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.False(t, res.Placeholder)
	assert.Equal(t, "avatars", store.bucket)
	assert.True(t, strings.HasPrefix(store.key, "u1/"))
	assert.True(t, strings.HasSuffix(store.key, ".png"))
	assert.Equal(t, []byte("png-bytes"), store.body)
	assert.Equal(t, "https://cdn.campus.edu/avatars/"+store.key, res.URL)
	assert.Equal(t, int64(len("png-bytes")), res.Size)
	assert.Equal(t, "image/png", res.Type)
}

func TestUpload_UsesSessionWhenUserIDMissing(t *testing.T) {
	store := &recordingStore{}
	h := newUploadHandler(store)

	rr := httptest.NewRecorder()
	h.Upload(rr, withSession(multipartRequest(t, "image/jpeg", []byte("jpg"), nil), "u42"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "event-images", store.bucket)
	assert.True(t, strings.HasPrefix(store.key, "u42/"))
}

func TestUpload_PlaceholderWhenStoreFails(t *testing.T) {
	h := newUploadHandler(&recordingStore{err: fmt.Errorf("access denied")})

	rr := httptest.NewRecorder()
	h.Upload(rr, multipartRequest(t, "image/webp", []byte("webp"), nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["placeholder"])
	assert.Equal(t, "https://placehold.co/800x450", body["url"])
}

func TestUpload_PlaceholderWhenStoreMissing(t *testing.T) {
	h := newUploadHandler(nil)

	rr := httptest.NewRecorder()
	h.Upload(rr, multipartRequest(t, "image/gif", []byte("gif"), nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decodeBody(t, rr)["placeholder"])
}

func TestUpload_RejectsUnsupportedType(t *testing.T) {
	store := &recordingStore{}
	h := newUploadHandler(store)

	rr := httptest.NewRecorder()
	h.Upload(rr, multipartRequest(t, "application/pdf", []byte("%PDF"), nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "only JPEG, PNG, WebP and GIF images are allowed", decodeBody(t, rr)["error"])
	assert.Empty(t, store.key)
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	store := &recordingStore{}
	h := newUploadHandler(store)

	rr := httptest.NewRecorder()
	h.Upload(rr, multipartRequest(t, "image/png", make([]byte, 15<<20), nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, store.key)
}

func TestUpload_RejectsUnknownBucket(t *testing.T) {
	h := newUploadHandler(&recordingStore{})

	rr := httptest.NewRecorder()
	h.Upload(rr, multipartRequest(t, "image/png", []byte("png"), map[string]string{"bucket": "secrets"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "unknown storage bucket", decodeBody(t, rr)["error"])
}

func TestUpload_MissingFile(t *testing.T) {
	h := newUploadHandler(nil)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("userId", "u1"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "file is required", decodeBody(t, rr)["error"])
}
