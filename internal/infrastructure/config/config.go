package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ui-template/internal/domain/entity"
)

const (
	FileName         = "uitest"
	LocalFileName    = "uitest.local"
	EnvPrefix        = "UITEST"
	DefaultWindow    = "1920,1080"
	windowSizeFormat = "accepted format is 'width,height' (e.g. 1920,1080 or 375,850) with both greater than 0"
)

var (
	ErrMissing = errors.New("missing required configuration")
	ErrInvalid = errors.New("invalid configuration")
)

type Config struct {
	Test TestConfig `mapstructure:"test"`
	Web  WebConfig  `mapstructure:"web"`
	Log  LogConfig  `mapstructure:"log"`
}

type TestConfig struct {
	LogsPath        string        `mapstructure:"logs_path"`
	StoreLogsAlways bool          `mapstructure:"store_logs_always"`
	ElementTimeout  time.Duration `mapstructure:"element_timeout"`
	PageLoadTimeout time.Duration `mapstructure:"page_load_timeout"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	Remote          bool          `mapstructure:"remote"`
	RemoteURL       string        `mapstructure:"remote_url"`
	Headless        bool          `mapstructure:"headless"`
	WindowSize      string        `mapstructure:"window_size"`
	BrowserBin      string        `mapstructure:"browser_bin"`
}

type WebConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	UserName     string `mapstructure:"user_name"`
	UserPassword string `mapstructure:"user_password"`
}

type LogConfig struct {
	ConsoleLevel string   `mapstructure:"console_level"`
	FileLevels   []string `mapstructure:"file_levels"`
	MaxSizeMB    int      `mapstructure:"max_size_mb"`
}

func SetDefaults(v *viper.Viper) {
	// -- Test --
	v.SetDefault("test.logs_path", "logs")
	v.SetDefault("test.store_logs_always", false)
	v.SetDefault("test.element_timeout", "10s")
	v.SetDefault("test.page_load_timeout", "30s")
	v.SetDefault("test.poll_interval", "500ms")
	v.SetDefault("test.remote", false)
	v.SetDefault("test.remote_url", "")
	v.SetDefault("test.headless", true)
	v.SetDefault("test.window_size", "")
	v.SetDefault("test.browser_bin", "")

	// -- Web --
	v.SetDefault("web.base_url", "")
	v.SetDefault("web.user_name", "")
	v.SetDefault("web.user_password", "")

	// -- Log --
	v.SetDefault("log.console_level", "info")
	v.SetDefault("log.file_levels", []string{"debug", "info"})
	v.SetDefault("log.max_size_mb", 50)
}

// Load reads uitest.yaml from dir, merges uitest.local.yaml over it and lets
// UITEST_* environment variables override both, e.g. UITEST_WEB_BASE_URL.
// Missing files are not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetConfigName(FileName)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read %s: %w", FileName, err)
		}
	}
	v.SetConfigName(LocalFileName)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read %s: %w", LocalFileName, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings every browser test needs.
func (c *Config) Validate() error {
	if err := c.Web.Validate(); err != nil {
		return err
	}
	return c.Test.Validate()
}

// Validate checks the browser and timeout settings. Credentials are not
// required here.
func (t TestConfig) Validate() error {
	if t.ElementTimeout <= 0 {
		return fmt.Errorf("%w: test.element_timeout must be positive", ErrInvalid)
	}
	if t.PageLoadTimeout <= 0 {
		return fmt.Errorf("%w: test.page_load_timeout must be positive", ErrInvalid)
	}
	if t.Remote && t.RemoteURL == "" {
		return fmt.Errorf("%w: test.remote_url is required when test.remote is set", ErrMissing)
	}
	if _, err := t.Window(); err != nil {
		return err
	}
	return nil
}

func (w WebConfig) Validate() error {
	if w.UserName == "" || w.UserPassword == "" {
		return fmt.Errorf("%w: web.user_name or web.user_password is not set", ErrMissing)
	}
	return nil
}

// Window parses WindowSize. Headless runs without a size get DefaultWindow.
func (t TestConfig) Window() (entity.WindowSize, error) {
	size, err := ParseWindowSize(t.WindowSize)
	if err != nil {
		return entity.WindowSize{}, err
	}
	if t.Headless && size.IsEmpty() {
		return ParseWindowSize(DefaultWindow)
	}
	return size, nil
}

// ParseWindowSize parses "width,height". An empty string is the zero size.
func ParseWindowSize(s string) (entity.WindowSize, error) {
	if s == "" {
		return entity.WindowSize{}, nil
	}
	i := strings.Index(s, ",")
	if i <= 0 {
		return entity.WindowSize{}, fmt.Errorf("%w: window size %q has no width and height separated by ','; %s", ErrInvalid, s, windowSizeFormat)
	}
	w, werr := strconv.Atoi(strings.TrimSpace(s[:i]))
	h, herr := strconv.Atoi(strings.TrimSpace(s[i+1:]))
	if werr != nil || herr != nil || w <= 0 || h <= 0 {
		return entity.WindowSize{}, fmt.Errorf("%w: window size %q cannot be parsed; %s", ErrInvalid, s, windowSizeFormat)
	}
	return entity.WindowSize{Width: w, Height: h}, nil
}
