package bitarchive

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rachit9876/bitArchive/internal/configstore"
	"github.com/rachit9876/bitArchive/internal/remote"
)

// configKey is the fixed key the serialized configuration lives under in
// the config store.
const configKey = "config_v1"

// Config holds the repository coordinates and credentials every remote
// operation needs. It is passed explicitly; the package keeps no ambient
// configuration state.
type Config struct {
	Token   string `json:"token"`
	Repo    string `json:"repo"` // "owner/name"
	Branch  string `json:"branch"`
	BaseURL string `json:"baseUrl,omitempty"` // optional custom public base URL
}

// RepoParts splits Repo into owner and name.
func (c Config) RepoParts() (owner, name string, err error) {
	owner, name, ok := strings.Cut(c.Repo, "/")
	owner, name = strings.TrimSpace(owner), strings.TrimSpace(name)
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("bitarchive: invalid repo %q, want owner/name", c.Repo)
	}
	return owner, name, nil
}

// Validate checks that the config can drive remote requests.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("bitarchive: token is required")
	}
	if _, _, err := c.RepoParts(); err != nil {
		return err
	}
	return nil
}

// RawBaseURL returns the base URL public image links are built from:
// the custom BaseURL when set, otherwise the raw-content URL of the
// configured branch's public directory.
func (c Config) RawBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/") + "/"
	}
	owner, name, err := c.RepoParts()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s/", owner, name, c.branch(), remote.ContentDir)
}

func (c Config) branch() string {
	if c.Branch == "" {
		return "main"
	}
	return c.Branch
}

func (c Config) remoteConfig() (remote.Config, error) {
	owner, name, err := c.RepoParts()
	if err != nil {
		return remote.Config{}, err
	}
	return remote.Config{
		Token:  c.Token,
		Owner:  owner,
		Repo:   name,
		Branch: c.branch(),
	}, nil
}

// LoadConfig reads the stored configuration from a config store backend.
// Returns ErrNoConfig when none has been saved.
func LoadConfig(kv configstore.KV) (Config, error) {
	raw, err := kv.Get(configKey)
	if err != nil {
		if errors.Is(err, configstore.ErrKeyNotFound) {
			return Config{}, ErrNoConfig
		}
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig validates and persists the configuration.
func SaveConfig(kv configstore.KV, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	if err := kv.Put(configKey, string(data)); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// ClearConfig removes the stored configuration. Clearing an empty store is
// not an error.
func ClearConfig(kv configstore.KV) error {
	if err := kv.Delete(configKey); err != nil && !errors.Is(err, configstore.ErrKeyNotFound) {
		return fmt.Errorf("clear config: %w", err)
	}
	return nil
}
