package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewS3UploaderRequiresCredentials(t *testing.T) {
	_, err := NewS3Uploader(&Config{Endpoint: "https://abc.storage.supabase.co"})
	assert.Error(t, err)
}

func TestNewS3UploaderRequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(&Config{
		Endpoint:        "https://abc.storage.supabase.co",
		AccessKeyID:     "key",
		AccessKeySecret: "secret",
	})
	assert.Error(t, err)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", contentTypeFor("receipt_1.png"))
	assert.Equal(t, "image/jpeg", contentTypeFor("receipt_1.jpeg"))
	assert.Equal(t, "image/jpeg", contentTypeFor("receipt_1.jpg"))
	assert.Equal(t, "image/webp", contentTypeFor("receipt_1.webp"))
	assert.Equal(t, "image/jpeg", contentTypeFor("no-extension"))
}
