package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type AdminConfig struct {
	PasswordHash     string `mapstructure:"password_hash"`
	SessionHours     int    `mapstructure:"session_hours"`
	MaxLoginAttempts int    `mapstructure:"max_login_attempts"`
	CooldownMinutes  int    `mapstructure:"cooldown_minutes"`
	CookieName       string `mapstructure:"cookie_name"`
}

type UploadConfig struct {
	Dir string `mapstructure:"dir"`
}

type GeocoderConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BaseURL        string `mapstructure:"base_url"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// BookSeed describes one book to seed when the table is empty.
type BookSeed struct {
	Title     string `mapstructure:"title"`
	ShortName string `mapstructure:"short_name"`
	PinColor  string `mapstructure:"pin_color"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Uploads  UploadConfig   `mapstructure:"uploads"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Books    []BookSeed     `mapstructure:"books"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from the given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in the current working
// directory. Environment variables prefixed with BRM_ override file
// values, e.g. BRM_ADMIN_PASSWORD_HASH.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		v.SetEnvPrefix("BRM") // book review map
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		setDefaults(v)

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("database.path", "data/bookmap.db")
	v.SetDefault("admin.session_hours", 24)
	v.SetDefault("admin.max_login_attempts", 5)
	v.SetDefault("admin.cooldown_minutes", 15)
	v.SetDefault("admin.cookie_name", "bookmap_admin_session")
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("geocoder.enabled", true)
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "bookmap/1.0")
	v.SetDefault("geocoder.timeout_seconds", 10)
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
