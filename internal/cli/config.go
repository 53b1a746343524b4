package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	Profile     string
	ProfileFile string
	Token       string
	Output      string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("TALLY_SERVER", "http://localhost:8080"),
		Profile:     os.Getenv("TALLY_PROFILE"),
		ProfileFile: getEnvOrDefault("TALLY_PROFILE_FILE", defaultProfileFile()),
		Token:       os.Getenv("TALLY_TOKEN"),
		Output:      "text",
	}
}

// LoadProfile loads the profile id from file if not already set. The server
// mints one on first contact; persisting it is what makes this machine one
// stable profile across invocations.
func (c *Config) LoadProfile() error {
	if c.Profile != "" {
		return nil
	}

	data, err := os.ReadFile(c.ProfileFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // First run, the server will mint one
		}
		return err
	}

	c.Profile = strings.TrimSpace(string(data))
	return nil
}

// SaveProfile persists the profile id to the profile file
func (c *Config) SaveProfile(profile string) error {
	c.Profile = profile

	dir := filepath.Dir(c.ProfileFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.ProfileFile, []byte(profile), 0600)
}

func defaultProfileFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tally/profile"
	}
	return filepath.Join(home, ".tally", "profile")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
