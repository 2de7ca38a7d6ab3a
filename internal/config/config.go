package config // package config loads application configuration from environment variables

import (
    "fmt"
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "strings"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    LogLevel       string // zap level name (debug, info, warn, error)
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    DBAutoMigrate  bool   // apply embedded migrations on startup
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    BcryptCost     int    // bcrypt cost for password hashing

    StorageRoot       string // directory that holds uploaded files
    StorageURLPrefix  string // URL path the storage root is served under
    ImageMaxKB        int    // max size for image uploads
    TemplateMaxKB     int    // max size for template package uploads
    ChildReadsPublic  bool   // acara/story/galery/rekening lists readable by guests
    RabbitURL         string // empty disables event publishing
    AdminEmail        string // bootstrap admin account (optional)
    AdminPassword     string
}

// IsProd reports whether the service runs in production mode.
func (c Config) IsProd() bool { return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production") }

// Load reads configuration values from environment variables.  Every missing
// or malformed required variable is reported in the returned error.
func Load() (Config, error) {
    l := &loader{}
    cfg := Config{
        Env:            l.must("APP_ENV"),
        Port:           l.must("APP_PORT"),
        LogLevel:       envStr("LOG_LEVEL", "info"),
        DBUser:         l.must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty allowed
        DBHost:         l.must("DB_HOST"),
        DBPort:         l.must("DB_PORT"),
        DBName:         l.must("DB_NAME"),
        DBAutoMigrate:  envBool("DB_AUTO_MIGRATE", false),
        JWTSecret:      l.must("JWT_SECRET"),
        AccessTTLMin:   l.mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays: l.mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:     l.mustInt("BCRYPT_COST"),

        StorageRoot:      envStr("STORAGE_ROOT", "storage/public"),
        StorageURLPrefix: envStr("STORAGE_URL_PREFIX", "/storage"),
        ImageMaxKB:       envInt("UPLOAD_IMAGE_MAX_KB", 2048),
        TemplateMaxKB:    envInt("UPLOAD_TEMPLATE_MAX_KB", 2048),
        ChildReadsPublic: envBool("CHILD_READS_PUBLIC", true),
        RabbitURL:        os.Getenv("RABBITMQ_URL"),
        AdminEmail:       os.Getenv("ADMIN_EMAIL"),
        AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
    }
    if len(l.problems) > 0 {
        return Config{}, fmt.Errorf("config: %s", strings.Join(l.problems, "; "))
    }
    return cfg, nil
}

// loader collects every problem instead of stopping at the first one.
type loader struct{ problems []string }

func (l *loader) must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        l.problems = append(l.problems, "missing required env var "+key)
    }
    return v
}

func (l *loader) mustInt(key string) int {
    s := l.must(key)
    if s == "" {
        return 0
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        l.problems = append(l.problems, fmt.Sprintf("invalid int for %s: %q", key, s))
    }
    return n
}
