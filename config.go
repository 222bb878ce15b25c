package admin

import (
	"context"

	"github.com/goliatone/go-cms-admin/internal/runtimeconfig"
)

var (
	ErrAPIBaseURLRequired     = runtimeconfig.ErrAPIBaseURLRequired
	ErrAPIBaseURLInvalid      = runtimeconfig.ErrAPIBaseURLInvalid
	ErrMediaBaseURLInvalid    = runtimeconfig.ErrMediaBaseURLInvalid
	ErrConsoleBaseURLInvalid  = runtimeconfig.ErrConsoleBaseURLInvalid
	ErrPageSizeInvalid        = runtimeconfig.ErrPageSizeInvalid
	ErrPageSizeNotOffered     = runtimeconfig.ErrPageSizeNotOffered
	ErrTruncateLengthInvalid  = runtimeconfig.ErrTruncateLengthInvalid
	ErrDateLayoutRequired     = runtimeconfig.ErrDateLayoutRequired
	ErrSignInRetriesInvalid   = runtimeconfig.ErrSignInRetriesInvalid
	ErrSignInDelayInvalid     = runtimeconfig.ErrSignInDelayInvalid
	ErrPresignBucketRequired  = runtimeconfig.ErrPresignBucketRequired
	ErrPresignRegionRequired  = runtimeconfig.ErrPresignRegionRequired
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
)

type (
	Config        = runtimeconfig.Config
	APIConfig     = runtimeconfig.APIConfig
	MediaConfig   = runtimeconfig.MediaConfig
	PresignConfig = runtimeconfig.PresignConfig
	ConsoleConfig = runtimeconfig.ConsoleConfig
	TableConfig   = runtimeconfig.TableConfig
	ExportConfig  = runtimeconfig.ExportConfig
	SignInConfig  = runtimeconfig.SignInConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	StorageConfig = runtimeconfig.StorageConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads ADMIN_* variables, after the optional dotenv files, over
// the defaults.
func LoadConfig(ctx context.Context, dotenv ...string) (Config, error) {
	return runtimeconfig.LoadFromEnv(ctx, dotenv...)
}
