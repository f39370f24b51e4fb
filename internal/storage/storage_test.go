package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adaptagent/internal/config"
)

func TestAttachmentKey(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"lowercases extension", "Scan.PDF", "attachments/u1/a1.pdf"},
		{"no extension", "README", "attachments/u1/a1"},
		{"strips client path", `C:\Users\me\photo.jpeg`, "attachments/u1/a1.jpeg"},
		{"ignores traversal", "../../etc/passwd.png", "attachments/u1/a1.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AttachmentKey("u1", "a1", tt.filename))
		})
	}
}

func TestNewMinIO_Validation(t *testing.T) {
	full := config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "b"}

	tests := []struct {
		name    string
		mutate  func(c *config.MinIOConfig)
		wantErr string
	}{
		{"missing endpoint", func(c *config.MinIOConfig) { c.Endpoint = "" }, "endpoint"},
		{"missing secret", func(c *config.MinIOConfig) { c.SecretKey = "" }, "credentials"},
		{"missing bucket", func(c *config.MinIOConfig) { c.Bucket = "" }, "bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := full
			tt.mutate(&cfg)
			s, err := NewMinIO(cfg)
			assert.Nil(t, s)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
