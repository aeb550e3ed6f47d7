package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	marketplaceconfig "github.com/tickr-network/tickr/modules/marketplace/config"
	"github.com/tickr-network/tickr/pkg/logger"
	"github.com/tickr-network/tickr/pkg/logger/slogx"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		HTTPServer: HTTPServer{
			Port: 8080,
		},
	}
)

type Config struct {
	Logger        logger.Config `mapstructure:"logger"`
	APIOnly       bool          `mapstructure:"api_only"`
	EnableModules []string      `mapstructure:"enable_modules"`
	HTTPServer    HTTPServer    `mapstructure:"http_server"`
	Modules       Modules       `mapstructure:"modules"`
}

type HTTPServer struct {
	Port int `mapstructure:"port"`
}

type Modules struct {
	Marketplace marketplaceconfig.Config `mapstructure:"marketplace"`
}

// BindPFlag binds a command-line flag to a configuration key. Must be called
// before the first Load.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("failed to bind flag to config", slogx.String("key", key), slogx.Error(err))
	}
}

// Load loads the configuration from the config file and environment
// variables. Subsequent calls return the cached configuration.
func Load() Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))
	configOnce.Do(func() {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if err := viper.ReadInConfig(); err != nil {
			var errNotfound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotfound) {
				logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
			}
		}

		if err := viper.Unmarshal(&config); err != nil {
			logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
		}
		logger.InfoContext(ctx, "loaded config from environment variables successfully")
	})

	return *config
}
