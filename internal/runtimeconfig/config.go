package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var (
	ErrAPIBaseURLRequired     = errors.New("admin config: api base url is required")
	ErrAPIBaseURLInvalid      = errors.New("admin config: api base url must be an absolute http(s) url")
	ErrMediaBaseURLInvalid    = errors.New("admin config: media base url must be an absolute http(s) url")
	ErrConsoleBaseURLInvalid  = errors.New("admin config: console base url must be an absolute http(s) url")
	ErrPageSizeInvalid        = errors.New("admin config: page size must be positive")
	ErrPageSizeNotOffered     = errors.New("admin config: default page size must be one of the offered page sizes")
	ErrTruncateLengthInvalid  = errors.New("admin config: truncate length must be positive")
	ErrDateLayoutRequired     = errors.New("admin config: date layout is required")
	ErrSignInRetriesInvalid   = errors.New("admin config: sign-in retries must be zero or positive")
	ErrSignInDelayInvalid     = errors.New("admin config: sign-in delay must be zero or positive")
	ErrPresignBucketRequired  = errors.New("admin config: media presign requires endpoint and bucket")
	ErrPresignRegionRequired  = errors.New("admin config: media presign requires a region")
	ErrLoggingProviderUnknown = errors.New("admin config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("admin config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("admin config: logging format is invalid")
	ErrStorageDriverUnknown   = errors.New("admin config: storage driver is invalid")
)

// Config aggregates every setting consumed by the admin console runtime.
type Config struct {
	API     APIConfig
	Media   MediaConfig
	Console ConsoleConfig
	Table   TableConfig
	Export  ExportConfig
	SignIn  SignInConfig
	Logging LoggingConfig
	Storage StorageConfig
}

// APIConfig points the console at the REST backend.
type APIConfig struct {
	BaseURL string        `env:"ADMIN_API_BASE_URL, overwrite"`
	Prefix  string        `env:"ADMIN_API_PREFIX, overwrite"`
	Token   string        `env:"ADMIN_API_TOKEN, overwrite"`
	Timeout time.Duration `env:"ADMIN_API_TIMEOUT, overwrite"`
}

// MediaConfig controls how relative media paths are turned into URLs.
type MediaConfig struct {
	BaseURL     string `env:"ADMIN_MEDIA_BASE_URL, overwrite"`
	Placeholder string `env:"ADMIN_MEDIA_PLACEHOLDER, overwrite"`
	Presign     PresignConfig
}

// PresignConfig enables signed URLs for media kept in a private S3 bucket.
type PresignConfig struct {
	Enabled   bool          `env:"ADMIN_MEDIA_PRESIGN, overwrite"`
	Endpoint  string        `env:"ADMIN_MEDIA_S3_ENDPOINT, overwrite"`
	Region    string        `env:"ADMIN_MEDIA_S3_REGION, overwrite"`
	Bucket    string        `env:"ADMIN_MEDIA_S3_BUCKET, overwrite"`
	AccessKey string        `env:"ADMIN_MEDIA_S3_ACCESS_KEY, overwrite"`
	SecretKey string        `env:"ADMIN_MEDIA_S3_SECRET_KEY, overwrite"`
	UseSSL    bool          `env:"ADMIN_MEDIA_S3_SSL, overwrite"`
	TTL       time.Duration `env:"ADMIN_MEDIA_S3_TTL, overwrite"`
}

// ConsoleConfig describes where edit forms live.
type ConsoleConfig struct {
	BaseURL  string `env:"ADMIN_CONSOLE_BASE_URL, overwrite"`
	EditPath string `env:"ADMIN_CONSOLE_EDIT_PATH, overwrite"`
}

// TableConfig captures table presentation policy shared by every list page.
type TableConfig struct {
	PageSize       int    `env:"ADMIN_TABLE_PAGE_SIZE, overwrite"`
	PageSizes      []int  `env:"ADMIN_TABLE_PAGE_SIZES, overwrite"`
	TruncateLength int    `env:"ADMIN_TABLE_TRUNCATE, overwrite"`
	DateLayout     string `env:"ADMIN_TABLE_DATE_LAYOUT, overwrite"`
	Placeholder    string `env:"ADMIN_TABLE_PLACEHOLDER, overwrite"`
}

// ExportConfig controls where exported files are delivered.
type ExportConfig struct {
	Dir string `env:"ADMIN_EXPORT_DIR, overwrite"`
}

// SignInConfig holds the bounded retry policy of the sign-in flow.
type SignInConfig struct {
	Path    string        `env:"ADMIN_SIGNIN_PATH, overwrite"`
	Retries int           `env:"ADMIN_SIGNIN_RETRIES, overwrite"`
	Delay   time.Duration `env:"ADMIN_SIGNIN_DELAY, overwrite"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `env:"ADMIN_LOG_PROVIDER, overwrite"`
	Level     string   `env:"ADMIN_LOG_LEVEL, overwrite"`
	Format    string   `env:"ADMIN_LOG_FORMAT, overwrite"`
	AddSource bool     `env:"ADMIN_LOG_ADD_SOURCE, overwrite"`
	Focus     []string `env:"ADMIN_LOG_FOCUS, overwrite"`
}

// StorageConfig selects the database used by the fixture backend.
type StorageConfig struct {
	Driver string `env:"ADMIN_STORAGE_DRIVER, overwrite"`
	DSN    string `env:"ADMIN_STORAGE_DSN, overwrite"`
}

// DefaultConfig returns the defaults observed across the console pages.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Prefix:  "/api",
			Timeout: 30 * time.Second,
		},
		Media: MediaConfig{
			BaseURL:     "http://localhost:8080",
			Placeholder: "/static/placeholder.png",
			Presign: PresignConfig{
				Region: "us-east-1",
				TTL:    15 * time.Minute,
			},
		},
		Console: ConsoleConfig{
			BaseURL:  "http://localhost:3000",
			EditPath: "/admin/:resource/:id/edit",
		},
		Table: TableConfig{
			PageSize:       10,
			PageSizes:      []int{10, 20, 30, 40, 50},
			TruncateLength: 100,
			DateLayout:     "1/2/2006",
			Placeholder:    "None",
		},
		Export: ExportConfig{
			Dir: ".",
		},
		SignIn: SignInConfig{
			Path:    "/auth/signin",
			Retries: 2,
			Delay:   time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file::memory:?cache=shared",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return ErrAPIBaseURLRequired
	}
	if !isAbsoluteHTTP(cfg.API.BaseURL) {
		return fmt.Errorf("%w: %s", ErrAPIBaseURLInvalid, cfg.API.BaseURL)
	}
	if base := strings.TrimSpace(cfg.Media.BaseURL); base != "" && !isAbsoluteHTTP(base) {
		return fmt.Errorf("%w: %s", ErrMediaBaseURLInvalid, base)
	}
	if base := strings.TrimSpace(cfg.Console.BaseURL); base != "" && !isAbsoluteHTTP(base) {
		return fmt.Errorf("%w: %s", ErrConsoleBaseURLInvalid, base)
	}
	if cfg.Media.Presign.Enabled {
		if strings.TrimSpace(cfg.Media.Presign.Endpoint) == "" || strings.TrimSpace(cfg.Media.Presign.Bucket) == "" {
			return ErrPresignBucketRequired
		}
		if strings.TrimSpace(cfg.Media.Presign.Region) == "" {
			return ErrPresignRegionRequired
		}
	}
	if cfg.Table.PageSize <= 0 {
		return ErrPageSizeInvalid
	}
	if len(cfg.Table.PageSizes) > 0 {
		offered := false
		for _, size := range cfg.Table.PageSizes {
			if size <= 0 {
				return fmt.Errorf("%w: %d", ErrPageSizeInvalid, size)
			}
			if size == cfg.Table.PageSize {
				offered = true
			}
		}
		if !offered {
			return fmt.Errorf("%w: %d", ErrPageSizeNotOffered, cfg.Table.PageSize)
		}
	}
	if cfg.Table.TruncateLength <= 0 {
		return ErrTruncateLengthInvalid
	}
	if strings.TrimSpace(cfg.Table.DateLayout) == "" {
		return ErrDateLayoutRequired
	}
	if cfg.SignIn.Retries < 0 {
		return ErrSignInRetriesInvalid
	}
	if cfg.SignIn.Delay < 0 {
		return ErrSignInDelayInvalid
	}
	provider := normalize(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	if driver := normalize(cfg.Storage.Driver); driver != "" && driver != "sqlite" && driver != "postgres" {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}
	return nil
}

func isAbsoluteHTTP(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
