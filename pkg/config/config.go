package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override (CONTENTPACKS_BUILD_DIR, ...).
const EnvPrefix = "CONTENTPACKS"

// Config holds all configuration for contentpacks
type Config struct {
	Build   BuildConfig   `mapstructure:"build"`
	Import  ImportConfig  `mapstructure:"import"`
	Pack    PackConfig    `mapstructure:"pack"`
	Publish PublishConfig `mapstructure:"publish"`
}

// BuildConfig holds the staging location
type BuildConfig struct {
	Dir string `mapstructure:"dir"`
}

// ContentDir is where leaf payloads are staged.
func (b BuildConfig) ContentDir() string { return filepath.Join(b.Dir, "content") }

// AssessmentDir is where exercise resource files are cached.
func (b BuildConfig) AssessmentDir() string { return filepath.Join(b.Dir, "assessment") }

// ImportConfig holds directory walk options
type ImportConfig struct {
	IgnoreFile       string   `mapstructure:"ignore_file"`
	Exclude          []string `mapstructure:"exclude"`
	ValidateMetadata bool     `mapstructure:"validate_metadata"`
}

// PackConfig holds language pack options
type PackConfig struct {
	Out string `mapstructure:"out"`
}

// OutFile returns the configured output path, or <language>.zip.
func (p PackConfig) OutFile(language string) string {
	if p.Out != "" {
		return p.Out
	}
	return language + ".zip"
}

// PublishConfig holds object storage settings for uploading packs
type PublishConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
}

var defaultConfig = Config{
	Build: BuildConfig{Dir: "build"},
	Import: ImportConfig{
		IgnoreFile:       ".contentignore",
		Exclude:          []string{},
		ValidateMetadata: true,
	},
	Publish: PublishConfig{
		UseSSL: true,
		Prefix: "language_packs",
	},
}

// Default returns a copy of the built-in defaults.
func Default() Config {
	c := defaultConfig
	c.Import.Exclude = append([]string{}, defaultConfig.Import.Exclude...)
	return c
}

// LoadConfig loads configuration from defaults, the optional config file
// search path, .env and the environment
func LoadConfig() (*Config, error) {
	return Load("")
}

// Load is LoadConfig with an explicit config file. An explicit file that
// cannot be read is an error; the search path is best-effort.
func Load(configFile string) (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("build.dir", defaultConfig.Build.Dir)
	v.SetDefault("import.ignore_file", defaultConfig.Import.IgnoreFile)
	v.SetDefault("import.exclude", defaultConfig.Import.Exclude)
	v.SetDefault("import.validate_metadata", defaultConfig.Import.ValidateMetadata)
	v.SetDefault("pack.out", defaultConfig.Pack.Out)
	v.SetDefault("publish.enabled", defaultConfig.Publish.Enabled)
	v.SetDefault("publish.endpoint", defaultConfig.Publish.Endpoint)
	v.SetDefault("publish.region", defaultConfig.Publish.Region)
	v.SetDefault("publish.bucket", defaultConfig.Publish.Bucket)
	v.SetDefault("publish.access_key", defaultConfig.Publish.AccessKey)
	v.SetDefault("publish.secret_key", defaultConfig.Publish.SecretKey)
	v.SetDefault("publish.use_ssl", defaultConfig.Publish.UseSSL)
	v.SetDefault("publish.prefix", defaultConfig.Publish.Prefix)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("contentpacks")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")     // Current directory
		v.AddConfigPath("$HOME") // Home directory
		if configDir, err := GetConfigDir(); err == nil {
			v.AddConfigPath(configDir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		// Search path miss; defaults and environment still apply
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// GetHome returns the contentpacks home directory
func GetHome() (string, error) {
	if home := os.Getenv(EnvPrefix + "_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".contentpacks"), nil
}

// GetConfigDir returns the config directory within the home directory. It
// is not created.
func GetConfigDir() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "config"), nil
}
