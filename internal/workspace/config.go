package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/viper"
)

const (
	configDirName  = ".skydeckai-code"
	configFileName = "config"
	configFileType = "json"

	keyAllowedRoot = "allowed_directory"
)

// Config persists workspace settings under the user's config directory
// (~/.skydeckai-code/config.json). Reads of a missing or corrupt file
// fall back to defaults; writes are serialized with a file lock so
// multiple server instances do not clobber each other.
type Config struct {
	v    *viper.Viper
	dir  string
	lock *flock.Flock
}

// LoadConfig reads the persisted configuration, creating the config
// directory if needed. A config that cannot be read is treated as empty.
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("locating home directory: %w", err)
	}
	return LoadConfigFrom(filepath.Join(home, configDirName))
}

// LoadConfigFrom reads configuration from the given directory. Exposed
// so tests can point the store at a temp dir.
func LoadConfigFrom(dir string) (*Config, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)

	// Missing or unparseable config is not an error: the server falls
	// back to the default root.
	_ = v.ReadInConfig()

	return &Config{
		v:    v,
		dir:  dir,
		lock: flock.New(filepath.Join(dir, configFileName+".lock")),
	}, nil
}

// AllowedRoot returns the persisted allowed root, or "" if none is set.
func (c *Config) AllowedRoot() string {
	return c.v.GetString(keyAllowedRoot)
}

// SetAllowedRoot records the allowed root and writes the config file.
func (c *Config) SetAllowedRoot(root string) error {
	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("locking config: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()

	c.v.Set(keyAllowedRoot, root)
	path := filepath.Join(c.dir, configFileName+"."+configFileType)
	if err := c.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Dir returns the config directory path.
func (c *Config) Dir() string {
	return c.dir
}
