package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SUBMIT_DELAY_MS", "")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "")

	cfg := Load()

	assert.Equal(t, StoreDriverFile, cfg.StoreDriver)
	assert.Equal(t, time.Second, cfg.SubmitDelay)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("SUBMIT_DELAY_MS", "0")
	t.Setenv("TICK_INTERVAL_MS", "250")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()

	assert.Equal(t, StoreDriverRedis, cfg.StoreDriver)
	assert.Equal(t, time.Duration(0), cfg.SubmitDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "interview:snapshot:app_state", CacheKey.SnapshotKey("app_state"))
	assert.Equal(t, "interview:candidate:abc:events", CacheKey.CandidateEventsChannel("abc"))
}
