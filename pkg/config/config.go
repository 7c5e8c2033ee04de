// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the account file and runtime settings
package config

import (
	"zonemap/pkg/log"
	"zonemap/pkg/util"

	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// ErrConfigNotFound is returned when the account file does not exist
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrNoAccounts is returned when the account file defines no accounts
	ErrNoAccounts = errors.New("no API configurations available")
)

// Account is one set of provider credentials
type Account struct {
	Name  string
	Token string
}

// accountEntry is the on-disk shape of one account
type accountEntry struct {
	Token string `yaml:"token" json:"token"`
}

// Config is the loaded account file
type Config struct {
	Path     string
	Accounts []Account // file order
}

// Names returns account names in file order
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Accounts))
	for _, a := range c.Accounts {
		names = append(names, a.Name)
	}
	return names
}

// Load reads the account file at path. The file is a JSON (or YAML) object
// mapping account names to {"token": "..."}; key order is preserved.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	log.Debug("[config] Loading accounts from %s", path)

	accounts, err := parseAccounts(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoAccounts, path)
	}

	for _, a := range accounts {
		log.Trace("[config] Account '%s' token=%s", a.Name, util.MaskSensitiveValue(a.Token))
	}
	log.Verbose("[config] Loaded %d account(s): %s", len(accounts), strings.Join((&Config{Accounts: accounts}).Names(), ", "))

	return &Config{Path: path, Accounts: accounts}, nil
}

// parseAccounts walks the document node directly so mapping order survives decoding
func parseAccounts(data []byte) ([]Account, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected an object of accounts at line %d", doc.Line)
	}

	seen := make(map[string]bool, len(doc.Content)/2)
	accounts := make([]Account, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		name := doc.Content[i].Value
		if name == "" {
			return nil, fmt.Errorf("empty account name at line %d", doc.Content[i].Line)
		}
		if strings.ContainsAny(name, ";\"\r\n") || strings.TrimSpace(name) != name {
			return nil, fmt.Errorf("account name %q at line %d cannot be written to the table", name, doc.Content[i].Line)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate account '%s' at line %d", name, doc.Content[i].Line)
		}
		seen[name] = true

		var entry accountEntry
		if err := doc.Content[i+1].Decode(&entry); err != nil {
			return nil, fmt.Errorf("account '%s': %w", name, err)
		}

		token := strings.TrimSpace(util.ReadSecretValue(entry.Token))
		if token == "" {
			return nil, fmt.Errorf("account '%s' has no token", name)
		}

		accounts = append(accounts, Account{Name: name, Token: token})
	}

	return accounts, nil
}

// Store holds the active configuration; the interactive mode swaps it on reload
type Store struct {
	mu  sync.RWMutex
	cfg *Config
}

// NewStore wraps an already loaded configuration
func NewStore(cfg *Config) *Store {
	return &Store{cfg: cfg}
}

// Get returns the current configuration
func (s *Store) Get() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Accounts returns a copy of the current accounts
func (s *Store) Accounts() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Account(nil), s.cfg.Accounts...)
}

// Reload re-reads the file behind the current configuration. On failure the
// previous configuration stays active.
func (s *Store) Reload() error {
	s.mu.RLock()
	path := s.cfg.Path
	s.mu.RUnlock()

	cfg, err := Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}
