package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bazaargen/bazaargen/internal/filelock"
	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/models"
	"github.com/google/uuid"
)

const configFile = ".bazaar/config.json"
const lockFile = ".bazaar/config.json.lock"
const lockTimeout = 2 * time.Second

// DefaultCollectionWindow is the upload gap under which consecutive cards by
// one author are grouped into a collection.
const DefaultCollectionWindow = 5 * time.Minute

// Keys accepted by Get and Set
const (
	KeyIconBase         = "icon_base"
	KeyCollectionWindow = "collection_window"
	KeyAuthorID         = "author_id"
	KeyAuthorName       = "author_name"
)

// Load reads the config from disk
func Load(baseDir string) (*models.Config, error) {
	configPath := filepath.Join(baseDir, configFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Config{}, nil
		}
		return nil, err
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}

	return &cfg, nil
}

// Save writes the config to disk using atomic write (temp file + rename)
func Save(baseDir string, cfg *models.Config) error {
	configPath := filepath.Join(baseDir, configFile)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, configPath)
}

// withConfigLock serializes read-modify-write cycles on config.json
func withConfigLock(baseDir string, fn func() error) error {
	return filelock.With(filepath.Join(baseDir, lockFile), lockTimeout, fn)
}

// EnsureAuthor returns the local author id, generating and persisting one
// on first use.
func EnsureAuthor(baseDir string) (string, error) {
	var id string
	err := withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		if cfg.AuthorID != "" {
			id = cfg.AuthorID
			return nil
		}
		cfg.AuthorID = uuid.NewString()
		id = cfg.AuthorID
		return Save(baseDir, cfg)
	})
	return id, err
}

// GetIconBase returns the configured icon base or the processor default
func GetIconBase(baseDir string) (string, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return keyword.DefaultIconBase, err
	}
	if cfg.IconBase == "" {
		return keyword.DefaultIconBase, nil
	}
	return cfg.IconBase, nil
}

// GetCollectionWindow returns the configured collection window, falling back
// to the default when unset or unparsable.
func GetCollectionWindow(baseDir string) (time.Duration, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return DefaultCollectionWindow, err
	}
	if cfg.CollectionWindow == "" {
		return DefaultCollectionWindow, nil
	}
	d, err := time.ParseDuration(cfg.CollectionWindow)
	if err != nil {
		return DefaultCollectionWindow, nil
	}
	return d, nil
}

// Keys returns the settable config keys in sorted order
func Keys() []string {
	keys := []string{KeyIconBase, KeyCollectionWindow, KeyAuthorID, KeyAuthorName}
	sort.Strings(keys)
	return keys
}

// Get returns the raw value stored under key
func Get(baseDir, key string) (string, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return "", err
	}
	switch key {
	case KeyIconBase:
		return cfg.IconBase, nil
	case KeyCollectionWindow:
		return cfg.CollectionWindow, nil
	case KeyAuthorID:
		return cfg.AuthorID, nil
	case KeyAuthorName:
		return cfg.AuthorName, nil
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// Set validates and stores value under key
func Set(baseDir, key, value string) error {
	if key == KeyCollectionWindow && value != "" {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
	}
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		switch key {
		case KeyIconBase:
			cfg.IconBase = value
		case KeyCollectionWindow:
			cfg.CollectionWindow = value
		case KeyAuthorID:
			cfg.AuthorID = value
		case KeyAuthorName:
			cfg.AuthorName = value
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		return Save(baseDir, cfg)
	})
}
