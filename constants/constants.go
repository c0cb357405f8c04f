package constants

import "time"

// viper keys
const (
	ConfigFolder    = "CONFIG_FOLDER"
	LogLevel        = "LOG_LEVEL"
	LogFile         = "LOG_FILE"
	EncryptionKey   = "ENCRYPTION_KEY"
	EnvPrefix       = "OLAKE"
	FlagsConfigKey  = "flags"
	StoreConfigKey  = "store"
	RetryConfigKey  = "retry"
	SecretConfigKey = "secrets"
)

// feature flags
const (
	// PersistBackfillState gates the durable write of backfill-cleared state (workspace scoped)
	PersistBackfillState = "persist-backfill-state"
	// UseRuntimeSecretPersistence routes secret hydration to the organization's own store
	UseRuntimeSecretPersistence = "use-runtime-secret-persistence"
)

// retry defaults for external store calls
const (
	DefaultRetryInitialInterval = 10 * time.Millisecond
	DefaultRetryMaxInterval     = 100 * time.Millisecond
	DefaultMaxRetries           = 5
	DefaultTaskQueueSize        = 64
)

// SecretKey marks a secret coordinate node inside a connector configuration
const SecretKey = "_secret"
