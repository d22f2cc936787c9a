package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "BLOG"

const (
	KeyListenAddr        = "listen_addr"
	KeyRootURL           = "root_url"
	KeyStaticDir         = "static_dir"
	KeyDataDelay         = "data_delay"
	KeyCompress          = "compress"
	KeyLogLevel          = "log_level"
	KeyLogFormat         = "log_format"
	KeyShutdownTimeout   = "shutdown_timeout"
	KeyDatastarScriptURL = "datastar_script_url"
	KeyCacheHTML         = "cache_html"
	KeyCacheStatic       = "cache_static"
	KeyCacheHealth       = "cache_health"
	KeyCacheError        = "cache_error"
)

const (
	defaultListenAddr        = ":3000"
	defaultDataDelay         = time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultDatastarScriptURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"
)

type Config struct {
	ListenAddr string
	RootURL    string

	// StaticDir overrides the embedded assets when set.
	StaticDir string

	DataDelay time.Duration
	Compress  bool

	LogLevel  string
	LogFormat string

	ShutdownTimeout time.Duration

	DatastarScriptURL string

	CacheHTML   string
	CacheStatic string
	CacheHealth string
	CacheError  string
}

// SetDefaults registers defaults and the BLOG_ environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(KeyListenAddr, defaultListenAddr)
	v.SetDefault(KeyRootURL, "")
	v.SetDefault(KeyStaticDir, "")
	v.SetDefault(KeyDataDelay, defaultDataDelay.String())
	v.SetDefault(KeyCompress, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyShutdownTimeout, defaultShutdownTimeout.String())
	v.SetDefault(KeyDatastarScriptURL, defaultDatastarScriptURL)
	v.SetDefault(KeyCacheHTML, "")
	v.SetDefault(KeyCacheStatic, "")
	v.SetDefault(KeyCacheHealth, "")
	v.SetDefault(KeyCacheError, "")
}

// Load reads the configuration from v. Empty cache policies keep the
// server defaults.
func Load(v *viper.Viper) Config {
	return Config{
		ListenAddr:        getString(v, KeyListenAddr, defaultListenAddr),
		RootURL:           strings.TrimSpace(v.GetString(KeyRootURL)),
		StaticDir:         strings.TrimSpace(v.GetString(KeyStaticDir)),
		DataDelay:         getDuration(v, KeyDataDelay, defaultDataDelay, true),
		Compress:          v.GetBool(KeyCompress),
		LogLevel:          getString(v, KeyLogLevel, "info"),
		LogFormat:         getString(v, KeyLogFormat, "text"),
		ShutdownTimeout:   getDuration(v, KeyShutdownTimeout, defaultShutdownTimeout, false),
		DatastarScriptURL: getString(v, KeyDatastarScriptURL, defaultDatastarScriptURL),
		CacheHTML:         strings.TrimSpace(v.GetString(KeyCacheHTML)),
		CacheStatic:       strings.TrimSpace(v.GetString(KeyCacheStatic)),
		CacheHealth:       strings.TrimSpace(v.GetString(KeyCacheHealth)),
		CacheError:        strings.TrimSpace(v.GetString(KeyCacheError)),
	}
}

func getString(v *viper.Viper, key string, fallback string) string {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return fallback
	}

	return value
}

func getDuration(v *viper.Viper, key string, fallback time.Duration, allowZero bool) time.Duration {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 || (parsed == 0 && !allowZero) {
		return fallback
	}

	return parsed
}
