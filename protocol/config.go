package protocol

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/datazip-inc/olake-hydrator/constants"
	"github.com/datazip-inc/olake-hydrator/crypto"
	"github.com/datazip-inc/olake-hydrator/secrets"
	"github.com/datazip-inc/olake-hydrator/store"
	"github.com/datazip-inc/olake-hydrator/utils"
)

// Config is the runtime configuration of the hydrate command
type Config struct {
	Store   store.Config   `mapstructure:"store" validate:"required"`
	Secrets secrets.Config `mapstructure:"secrets" validate:"required"`
	// RuntimeSecrets serves organizations with use-runtime-secret-persistence enabled
	RuntimeSecrets *secrets.Config  `mapstructure:"runtime_secrets"`
	Retry          utils.RetryPolicy `mapstructure:"retry"`
	TaskQueueSize  int               `mapstructure:"task_queue_size" validate:"gte=0"`
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault(constants.StoreConfigKey+".driver", store.DriverSQLite)
	v.SetDefault(constants.SecretConfigKey+".backend", secrets.BackendMemory)
	v.SetDefault(constants.RetryConfigKey+".initial_interval", constants.DefaultRetryInitialInterval)
	v.SetDefault(constants.RetryConfigKey+".max_interval", constants.DefaultRetryMaxInterval)
	v.SetDefault(constants.RetryConfigKey+".max_retries", constants.DefaultMaxRetries)
	v.SetDefault("task_queue_size", constants.DefaultTaskQueueSize)
}

// loadConfig decodes and validates the hydrator configuration held by v
func loadConfig(v *viper.Viper) (*Config, error) {
	setConfigDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %s", err)
	}
	if err := utils.Validate(config); err != nil {
		return nil, err
	}
	if config.RuntimeSecrets != nil {
		if err := utils.Validate(config.RuntimeSecrets); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// newCipher returns nil when no encryption key is configured
func newCipher(ctx context.Context, v *viper.Viper) (*crypto.Cipher, error) {
	key := v.GetString(constants.EncryptionKey)
	if key == "" {
		return nil, nil
	}
	return crypto.New(ctx, key)
}
