package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/reachinspect/internal/excerpt"
	"github.com/josephgoksu/reachinspect/internal/logger"
	"github.com/josephgoksu/reachinspect/internal/source"
	"github.com/josephgoksu/reachinspect/types"
	"github.com/spf13/viper"
)

const (
	configName = ".reachinspect"
	configDir  = ".reachinspect"
	envPrefix  = "REACHINSPECT"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance of Translate, it caches struct info
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	return validate.Struct(config)
}

// setDefaults registers the built-in value of every config key.
func setDefaults() {
	viper.SetDefault("source.baseDir", source.DefaultBaseDir())
	viper.SetDefault("source.contextLines", excerpt.DefaultThreshold)
	viper.SetDefault("output.color", "always")
	viper.SetDefault("catalog.file", "")
	viper.SetDefault("crash.dir", logger.DefaultCrashDir)
}

// InitConfig reads in config file and ENV variables if set, then
// unmarshals and validates GlobalAppConfig.
func InitConfig() error {
	// A missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)                          // e.g., REACHINSPECT_VERBOSE
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // output.color -> REACHINSPECT_OUTPUT_COLOR
	viper.AutomaticEnv()

	setDefaults()

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		if _, err := os.Stat(configDir); err == nil {
			viper.AddConfigPath(configDir) // ./.reachinspect/.reachinspect.yaml
		}
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		case cfgFileFlag != "" && errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("config file not found: %s", cfgFileFlag)
		default:
			return fmt.Errorf("read config file %s: %w", viper.ConfigFileUsed(), err)
		}
	}

	GlobalAppConfig = types.AppConfig{}
	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	logger.SetDir(GlobalAppConfig.Crash.Dir)
	return nil
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
