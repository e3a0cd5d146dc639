package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "portal.yaml"

// Config holds the portal server configuration.
type Config struct {
	Listen     string        `yaml:"listen"`
	LoginDelay Duration      `yaml:"login_delay"`
	Session    SessionConfig `yaml:"session"`
	TLS        TLSConfig     `yaml:"tls"`
	Log        LogConfig     `yaml:"log"`
}

type SessionConfig struct {
	// Secret is the hex encoded key material for cookie signing and encryption.
	Secret       string   `yaml:"secret"`
	IdleTTL      Duration `yaml:"idle_ttl"`
	CookieSecure bool     `yaml:"cookie_secure"`
}

type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

func (c TLSConfig) Enabled() bool {
	return c.CertFile != "" || c.KeyFile != ""
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json
	File   string `yaml:"file"`
}

// Duration is a time.Duration written as a Go duration string ("1s", "30m").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

func DefaultConfig() Config {
	return Config{
		Listen:     ":8080",
		LoginDelay: Duration(time.Second),
		Session: SessionConfig{
			IdleTTL: Duration(30 * time.Minute),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig starts from the defaults, applies the YAML file at path and then
// the PORTAL_* environment variables. An empty path means portal.yaml in the
// project root, which may be absent.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	optional := path == ""
	if optional {
		path = filepath.Join(GetProjectRoot(), DefaultConfigFile)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "failed to parse %s", path)
		}
	case optional && os.IsNotExist(err):
	default:
		return cfg, errors.Wrap(err, "failed to read config")
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("PORTAL_LISTEN"); ok {
		c.Listen = v
	}
	if v, ok := os.LookupEnv("PORTAL_LOGIN_DELAY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "PORTAL_LOGIN_DELAY")
		}
		c.LoginDelay = Duration(d)
	}
	if v, ok := os.LookupEnv("PORTAL_SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "PORTAL_SESSION_TTL")
		}
		c.Session.IdleTTL = Duration(d)
	}
	if v, ok := os.LookupEnv("PORTAL_SESSION_SECRET"); ok {
		c.Session.Secret = v
	}
	if v, ok := os.LookupEnv("PORTAL_COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "PORTAL_COOKIE_SECURE")
		}
		c.Session.CookieSecure = b
	}
	if v, ok := os.LookupEnv("PORTAL_TLS_CERT"); ok {
		c.TLS.CertFile = v
	}
	if v, ok := os.LookupEnv("PORTAL_TLS_KEY"); ok {
		c.TLS.KeyFile = v
	}
	if v, ok := os.LookupEnv("PORTAL_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("PORTAL_LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := os.LookupEnv("PORTAL_LOG_FILE"); ok {
		c.Log.File = v
	}
	return nil
}

func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address must not be empty")
	}
	if c.LoginDelay < 0 {
		return errors.New("login delay must not be negative")
	}
	if c.Session.IdleTTL <= 0 {
		return errors.New("session idle ttl must be positive")
	}
	if c.TLS.Enabled() && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		return errors.New("tls needs both cert_file and key_file")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// GetProjectRoot returns the absolute path to the project root directory.
func GetProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "." // fallback
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached root
		}
		dir = parent
	}
	return "." // fallback
}
