// internal/services/storage_service_test.go
package services

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demotrack/demotrack-backend/internal/config"
)

func storageTestConfig() *config.Config {
	cfg := testConfig()
	cfg.AWS = config.AWSConfig{
		Region:   "eu-west-1",
		S3Bucket: "demotrack-media",
	}
	return cfg
}

// uploadedFile builds a multipart file the way gin hands it to handlers.
func uploadedFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	return file, header
}

func TestLocalUploadFallback(t *testing.T) {
	storage := NewLocalStorageService(storageTestConfig())
	file, header := uploadedFile(t, "portrait.png", []byte("png-bytes"))

	result, err := storage.UploadFile(file, header, storage.AvatarUploadOptions())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.URL, "http://localhost:8080/uploads/avatars/"), result.URL)
	assert.True(t, strings.HasPrefix(result.Key, "avatars/"), result.Key)
	assert.True(t, strings.HasSuffix(result.Key, ".png"), result.Key)
	assert.Equal(t, int64(len("png-bytes")), result.Size)
}

func TestUploadFileRejectsExtension(t *testing.T) {
	storage := NewLocalStorageService(storageTestConfig())
	file, header := uploadedFile(t, "malware.exe", []byte("nope"))

	_, err := storage.UploadFile(file, header, storage.AvatarUploadOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".exe")
}

func TestUploadFileRejectsOversize(t *testing.T) {
	storage := NewLocalStorageService(storageTestConfig())
	options := storage.AvatarUploadOptions()
	options.MaxSize = 4
	file, header := uploadedFile(t, "big.png", []byte("more than four bytes"))

	_, err := storage.UploadFile(file, header, options)
	require.Error(t, err)
}

func TestKeyFromURL(t *testing.T) {
	cfg := storageTestConfig()
	cfg.AWS.CloudFrontURL = "https://cdn.demotrack.example"
	storage := NewLocalStorageService(cfg)

	tests := []struct {
		url  string
		want string
	}{
		{"http://localhost:8080/uploads/avatars/20260831/a.png", "avatars/20260831/a.png"},
		{"https://demotrack-media.s3.eu-west-1.amazonaws.com/avatars/20260831/b.jpg", "avatars/20260831/b.jpg"},
		{"https://cdn.demotrack.example/avatars/20260831/c.png", "avatars/20260831/c.png"},
		{"https://elsewhere.example/d.png", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, storage.KeyFromURL(tt.url), tt.url)
	}
}
