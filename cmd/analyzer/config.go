package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = ".analyzer"
	configType = "yaml"
	envPrefix  = "ANALYZER"

	defaultAPIURL  = "http://localhost:8080"
	defaultGuestID = "cli"

	keyAPIURL      = "api_url"
	keyRecordID    = "record_id"
	keyUserID      = "user_id"
	keyGuestID     = "guest_id"
	keyFlowAPIName = "flow_api_name"
	keyNoColor     = "no_color"
)

// bindFlags maps --api-url to api_url and so on, so flags, ANALYZER_* env
// vars and the config file share one key space.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		_ = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
}

func loadConfig(v *viper.Viper, configPath string) error {
	v.SetDefault(keyAPIURL, defaultAPIURL)
	v.SetDefault(keyGuestID, defaultGuestID)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}
