package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingConfig is returned by Validate when a required value is unset.
var ErrMissingConfig = errors.New("missing configuration")

// Config holds the connection and runtime settings for a session.
type Config struct {
	// Azure DevOps connection
	OrgURL  string
	PAT     string
	Project string

	// Local state
	SettingsPath string

	// Background work
	RevalidateDelay time.Duration
	MaxConcurrent   int
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	settingsPath, err := defaultSettingsPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		OrgURL:          strings.TrimRight(os.Getenv("AZURE_DEVOPS_ORG_URL"), "/"),
		PAT:             firstEnv("AZURE_DEVOPS_EXT_PAT", "AZURE_DEVOPS_PAT"),
		Project:         os.Getenv("AZURE_DEVOPS_PROJECT"),
		SettingsPath:    getEnvWithDefault("WORKOPS_SETTINGS", settingsPath),
		RevalidateDelay: getEnvAsDurationWithDefault("WORKOPS_REVALIDATE_DELAY", 3*time.Second),
		MaxConcurrent:   getEnvAsIntWithDefault("WORKOPS_MAX_CONCURRENT", 8),
	}

	return cfg, nil
}

// Override replaces connection values with non-empty flag values.
func (c *Config) Override(orgURL, project string) {
	if orgURL != "" {
		c.OrgURL = strings.TrimRight(orgURL, "/")
	}
	if project != "" {
		c.Project = project
	}
}

// Validate reports which required values are missing.
func (c *Config) Validate() error {
	var missing []string
	if c.OrgURL == "" {
		missing = append(missing, "AZURE_DEVOPS_ORG_URL")
	}
	if c.PAT == "" {
		missing = append(missing, "AZURE_DEVOPS_EXT_PAT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

func defaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "workops", "settings.json"), nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}

	return value
}

func getEnvAsDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil || value < 0 {
		return defaultValue
	}

	return value
}
