// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// envCacheLock protects the environment variable cache
	envCacheLock sync.RWMutex

	// EnvCache is a cache of environment variables
	EnvCache = make(map[string]string)
)

// CacheEnvVar adds or updates a value in the environment variable cache
func CacheEnvVar(key, value string) {
	envCacheLock.Lock()
	defer envCacheLock.Unlock()
	EnvCache[key] = value
}

// GetCachedEnvVar retrieves a value from the cache, or if not present,
// reads it from the environment and adds it to the cache
func GetCachedEnvVar(key, defaultValue string) string {
	envCacheLock.RLock()
	value, exists := EnvCache[key]
	envCacheLock.RUnlock()

	if exists {
		return value
	}

	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		// unset variables are not cached so later exports are still seen
		return defaultValue
	}

	CacheEnvVar(key, value)
	return value
}

// ClearEnvCache empties the environment variable cache
func ClearEnvCache() {
	envCacheLock.Lock()
	defer envCacheLock.Unlock()
	EnvCache = make(map[string]string)
}

// SetEnvVar sets an environment variable in both the OS environment
// and the cache for consistent access
func SetEnvVar(key, value string) {
	os.Setenv(key, value)
	CacheEnvVar(key, value)
}

// EnvToString gets an environment variable as a string with a default value
func EnvToString(key string, defaultValue string) string {
	return GetCachedEnvVar(key, defaultValue)
}

// EnvToInt converts an environment variable to an integer with a default value
func EnvToInt(key string, defaultValue int) int {
	value := GetCachedEnvVar(key, "")
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}

	return intValue
}

// EnvToDuration reads a Go duration ("90s", "1h30m"); a bare integer is taken as seconds
func EnvToDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(GetCachedEnvVar(key, ""))
	if value == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// EnvToBool converts an environment variable to a boolean value
// Supports "true", "false", "1", "0", "yes", "no", "on", "off" (case-insensitive)
func EnvToBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(GetCachedEnvVar(key, "")))
	switch value {
	case "true", "yes", "1", "on":
		return true
	case "false", "no", "0", "off":
		return false
	default:
		return defaultValue
	}
}

// EnvToList splits a comma separated environment variable, dropping empty items
func EnvToList(key string) []string {
	value := GetCachedEnvVar(key, "")
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
