package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/ginee-gateway/internal/pkg/env"
)

// Config holds the payload archive settings
type Config struct {
	Enabled         bool
	AccessKeyID     string `validate:"required_if=Enabled true"`
	SecretAccessKey string `validate:"required_if=Enabled true"`
	Region          string `validate:"required"`
	BucketName      string `validate:"required_if=Enabled true"`
	EndpointURL     string `validate:"omitempty,url"` // Optional for S3-compatible services
	Prefix          string
}

// LoadConfig reads the S3_ARCHIVE_* settings
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Enabled:         env.GetEnvBool("S3_ARCHIVE_ENABLED", false),
		AccessKeyID:     env.GetEnv("S3_ARCHIVE_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_ARCHIVE_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_ARCHIVE_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_ARCHIVE_BUCKET", ""),
		EndpointURL:     env.GetEnv("S3_ARCHIVE_ENDPOINT_URL", ""),
		Prefix:          strings.Trim(env.GetEnv("S3_ARCHIVE_PREFIX", "ginee"), "/"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid archive config: %w", err)
	}
	return nil
}

// IsEnabled returns true if archiving is switched on
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// ObjectKey builds the key for an event payload.
// Format: <prefix>/<topic>/YYYY/MM/<event_id>.json
func (c *Config) ObjectKey(topic, eventID string, receivedAt time.Time) string {
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	receivedAt = receivedAt.UTC()
	key := fmt.Sprintf("%s/%04d/%02d/%s.json", sanitizeSegment(topic), receivedAt.Year(), int(receivedAt.Month()), sanitizeSegment(eventID))
	if c.Prefix == "" {
		return key
	}
	return c.Prefix + "/" + key
}

// sanitizeSegment keeps a value from introducing extra path segments.
func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
}
