package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// loadEnvFiles exports KEY=VALUE pairs from the given dotenv files. Variables
// already set to a non-empty value win over the files; missing files are
// skipped.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		v := viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("dotenv")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Printf("config: skip %s: %v", path, err)
			}
			continue
		}
		for _, key := range v.AllKeys() {
			name := strings.ToUpper(key)
			if os.Getenv(name) != "" {
				continue
			}
			_ = os.Setenv(name, v.GetString(key))
		}
	}
}
