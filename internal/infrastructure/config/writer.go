package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Filmorate Configuration
# Every value can be overridden with a FILMORATE_* environment variable.

http:
  addr: ":8080"            # FILMORATE_HTTP_ADDR
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 15s    # FILMORATE_SHUTDOWN_TIMEOUT
  rate_limit:
    rps: 50                # FILMORATE_RATE_LIMIT_RPS (0 disables)
    burst: 100             # FILMORATE_RATE_LIMIT_BURST

log:
  level: info              # FILMORATE_LOG_LEVEL
  format: text             # text or json, FILMORATE_LOG_FORMAT

# seed:
#   file: seed.yaml        # FILMORATE_SEED_FILE
`

// WriteDefault creates the .filmorate directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ConfigFilePath(basePath), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
