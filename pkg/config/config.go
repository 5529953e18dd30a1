package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// App holds application configuration.
type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

// Logger holds logger configuration.
type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Database holds database configuration.
type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

// Redis holds Redis configuration.
type Redis struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	StreamMaxLen int64  `mapstructure:"stream_max_len"`
}

// API holds API server configuration.
type API struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// maxExtendsDepth bounds the "extends" chain so a cycle cannot loop forever.
const maxExtendsDepth = 8

// Load loads configuration from a file into the given config struct.
//
// A .env file next to the working directory is loaded first so its values
// are visible to viper's environment lookup. When the YAML file has a
// top-level "extends" key, the referenced file is loaded first and the
// current file is merged on top of it.
func Load(path string, config interface{}) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env file: %v", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := mergeWithParents(v, path, 0); err != nil {
		log.Printf("Failed to read config file %s, falling back to environment variables: %v", path, err)
	}

	return v.Unmarshal(config)
}

func mergeWithParents(v *viper.Viper, path string, depth int) error {
	if depth > maxExtendsDepth {
		return fmt.Errorf("config extends chain too deep at %s", path)
	}

	child := viper.New()
	child.SetConfigFile(path)
	child.SetConfigType("yaml")
	if err := child.ReadInConfig(); err != nil {
		return err
	}

	if parent := child.GetString("extends"); parent != "" {
		if !filepath.IsAbs(parent) {
			parent = filepath.Join(filepath.Dir(path), parent)
		}
		if err := mergeWithParents(v, parent, depth+1); err != nil {
			return fmt.Errorf("failed to load base config %s: %w", parent, err)
		}
	}

	return v.MergeConfigMap(child.AllSettings())
}
