package pack

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisherRequiresSettings(t *testing.T) {
	full := PublishConfig{Endpoint: "localhost:9000", AccessKey: "ak", SecretKey: "sk", Bucket: "packs"}

	tests := []struct {
		name string
		mut  func(*PublishConfig)
		want string
	}{
		{"endpoint", func(c *PublishConfig) { c.Endpoint = " " }, "endpoint"},
		{"access key", func(c *PublishConfig) { c.AccessKey = "" }, "access key"},
		{"secret key", func(c *PublishConfig) { c.SecretKey = "" }, "secret key"},
		{"bucket", func(c *PublishConfig) { c.Bucket = "" }, "bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := full
			tt.mut(&cfg)
			_, err := NewPublisher(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	p, err := NewPublisher(full)
	require.NoError(t, err)
	assert.Equal(t, defaultRegion, p.region)
}

func TestPublisherObjectKey(t *testing.T) {
	p, err := NewPublisher(PublishConfig{
		Endpoint: "localhost:9000", AccessKey: "ak", SecretKey: "sk", Bucket: "packs",
		Prefix: "/language_packs/",
	})
	require.NoError(t, err)

	assert.Equal(t, "language_packs/en/en.zip", p.ObjectKey("en", "en.zip"))
	assert.Equal(t, "language_packs/pt-BR/pt.zip", p.ObjectKey("pt-BR", "dist/pt.zip"))
	assert.Equal(t, "language_packs/es/es.zip", p.ObjectKey("es", `dist\es.zip`))
}

func TestPublishRequiresLanguage(t *testing.T) {
	p, err := NewPublisher(PublishConfig{Endpoint: "localhost:9000", AccessKey: "ak", SecretKey: "sk", Bucket: "packs"})
	require.NoError(t, err)
	_, err = p.Publish(context.Background(), " ", "en.zip", strings.NewReader(""), 0)
	assert.Error(t, err)
}
