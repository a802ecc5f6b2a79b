package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load,
// e.g. CYPHER_BASE_URL.
const EnvPrefix = "CYPHER"

const (
	DefaultBaseURL  = "http://localhost"
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"
	DefaultText     = "hello"
)

// Config is the configuration of the round trip demo.
type Config struct {
	BaseURL   string        `mapstructure:"base-url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	LogLevel  string        `mapstructure:"log-level"`
	UserAgent string        `mapstructure:"user-agent"`
	Text      string        `mapstructure:"text"`
	Metrics   bool          `mapstructure:"metrics"`
}

// Flags declares every configuration key as a flag. log-level is left to the
// caller so it can be bound to a typed flag value.
func Flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("config", "", "path to a config file (yaml, json or toml)")
	fs.String("base-url", DefaultBaseURL, "base URL of the cypher service")
	fs.Duration("timeout", DefaultTimeout, "timeout of each request, 0 for none")
	fs.String("user-agent", "", "User-Agent header to send")
	fs.String("text", DefaultText, "text to encrypt and decrypt")
	fs.Bool("metrics", false, "print client metrics to stderr when done")
	return fs
}

// Load merges defaults, the optional config file, CYPHER_* environment
// variables and explicitly set flags, in increasing precedence.
func Load(fs *flag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("base-url", DefaultBaseURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log-level", DefaultLogLevel)
	v.SetDefault("text", DefaultText)
	v.SetDefault("metrics", false)
	v.SetDefault("user-agent", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, errors.Wrap(err, "bind flags")
		}
		if path, err := fs.GetString("config"); err == nil && path != "" {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "read config file %s", path)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that BaseURL is an absolute http(s) URL. Trailing slashes
// are kept as given.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return errors.Wrap(err, "invalid base-url")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("invalid base-url %q: want http(s)://host[:port]", c.BaseURL)
	}
	if c.Timeout < 0 {
		return errors.Errorf("invalid timeout %s", c.Timeout)
	}
	return nil
}
