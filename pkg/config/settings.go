// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"time"
)

// Default file names, relative to the working directory
const (
	DefaultConfigFile   = "api_config.json"
	DefaultTableFile    = "results.txt"
	DefaultAuditLogFile = "domains.txt"
	DefaultPerPage      = 50
	DefaultRateLimit    = 4
	DefaultListenPort   = "8080"
)

// Settings holds runtime options that are not part of the account file
type Settings struct {
	ConfigFile    string
	TableFile     string
	AuditLogFile  string
	PerPage       int
	MaxWorkers    int // 0 means one worker per account
	APIURL        string
	RateLimit     int // requests per second per account client
	HTTPTimeout   time.Duration
	TLSCA         string
	Outputs       []string // format:path pairs
	LogLevel      string
	LogTimestamps bool

	// serve subcommand
	Listen          []string // addresses or interface patterns
	ListenPort      string
	ListenTLSCert   string
	ListenTLSKey    string
	APIClients      []string // client_id=token pairs
	RefreshInterval time.Duration
}

// LoadSettings reads settings from the environment, falling back to defaults
func LoadSettings() Settings {
	s := Settings{
		ConfigFile:    EnvToString("ZONEMAP_CONFIG", DefaultConfigFile),
		TableFile:     EnvToString("ZONEMAP_TABLE", DefaultTableFile),
		AuditLogFile:  EnvToString("ZONEMAP_AUDIT_LOG", DefaultAuditLogFile),
		PerPage:       EnvToInt("ZONEMAP_PER_PAGE", DefaultPerPage),
		MaxWorkers:    EnvToInt("ZONEMAP_MAX_WORKERS", 0),
		APIURL:        EnvToString("ZONEMAP_API_URL", ""),
		RateLimit:     EnvToInt("ZONEMAP_RATE_LIMIT", DefaultRateLimit),
		HTTPTimeout:   time.Duration(EnvToInt("ZONEMAP_HTTP_TIMEOUT", 0)) * time.Second,
		TLSCA:         EnvToString("ZONEMAP_TLS_CA", ""),
		Outputs:       EnvToList("ZONEMAP_OUTPUTS"),
		LogLevel:      EnvToString("LOG_LEVEL", "info"),
		LogTimestamps: EnvToBool("LOG_TIMESTAMPS", false),

		Listen:          EnvToList("ZONEMAP_LISTEN"),
		ListenPort:      EnvToString("ZONEMAP_LISTEN_PORT", DefaultListenPort),
		ListenTLSCert:   EnvToString("ZONEMAP_LISTEN_TLS_CERT", ""),
		ListenTLSKey:    EnvToString("ZONEMAP_LISTEN_TLS_KEY", ""),
		APIClients:      EnvToList("ZONEMAP_API_CLIENTS"),
		RefreshInterval: EnvToDuration("ZONEMAP_REFRESH_INTERVAL", 0),
	}

	if s.PerPage <= 0 {
		s.PerPage = DefaultPerPage
	}
	if s.MaxWorkers < 0 {
		s.MaxWorkers = 0
	}
	if s.RateLimit <= 0 {
		s.RateLimit = DefaultRateLimit
	}
	if s.HTTPTimeout < 0 {
		s.HTTPTimeout = 0
	}
	if s.RefreshInterval < 0 {
		s.RefreshInterval = 0
	}

	return s
}
