package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
    t.Helper()
    t.Setenv("APP_ENV", "test")
    t.Setenv("APP_PORT", "8080")
    t.Setenv("DB_USER", "root")
    t.Setenv("DB_HOST", "127.0.0.1")
    t.Setenv("DB_PORT", "3306")
    t.Setenv("DB_NAME", "undangan")
    t.Setenv("JWT_SECRET", "secret")
    t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
    t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
    t.Setenv("BCRYPT_COST", "4")
}

func TestLoadDefaults(t *testing.T) {
    setRequired(t)

    cfg, err := Load()
    require.NoError(t, err)
    assert.Equal(t, "8080", cfg.Port)
    assert.Equal(t, 15, cfg.AccessTTLMin)
    assert.Equal(t, "storage/public", cfg.StorageRoot)
    assert.Equal(t, "/storage", cfg.StorageURLPrefix)
    assert.Equal(t, 2048, cfg.ImageMaxKB)
    assert.Equal(t, 2048, cfg.TemplateMaxKB)
    assert.True(t, cfg.ChildReadsPublic)
    assert.False(t, cfg.DBAutoMigrate)
    assert.False(t, cfg.IsProd())
}

func TestLoadReportsEveryMissingVar(t *testing.T) {
    setRequired(t)
    t.Setenv("JWT_SECRET", "")
    t.Setenv("BCRYPT_COST", "ten")

    _, err := Load()
    require.Error(t, err)
    assert.Contains(t, err.Error(), "JWT_SECRET")
    assert.Contains(t, err.Error(), `invalid int for BCRYPT_COST: "ten"`)
}

func TestLoadOptionalOverrides(t *testing.T) {
    setRequired(t)
    t.Setenv("APP_ENV", "prod")
    t.Setenv("CHILD_READS_PUBLIC", "off")
    t.Setenv("UPLOAD_IMAGE_MAX_KB", "512")

    cfg, err := Load()
    require.NoError(t, err)
    assert.True(t, cfg.IsProd())
    assert.False(t, cfg.ChildReadsPublic)
    assert.Equal(t, 512, cfg.ImageMaxKB)
}

func TestRateLimitConfigClamps(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    cfg := LoadRateLimitConfig()
    assert.Equal(t, 1, cfg.Capacity)
    assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestCacheConfigMethods(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head")

    cfg := LoadCacheConfig()
    assert.True(t, cfg.Methods["GET"])
    assert.True(t, cfg.Methods["HEAD"])
    assert.False(t, cfg.Methods["POST"])
}
