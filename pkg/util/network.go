// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package util

import (
	"zonemap/pkg/log"

	"fmt"
	"net"
	"path/filepath"
	"strings"
)

// ResolveListenAddresses turns listen patterns into host:port addresses.
//
// A pattern is a host:port pair (used as is), an IP address, "all" or "*",
// or an interface name glob such as "eth*". A leading "!" excludes matching
// interfaces. With no patterns every interface is used via ":port".
func ResolveListenAddresses(patterns []string, port string) ([]string, error) {
	if len(patterns) == 0 {
		return []string{":" + port}, nil
	}

	var addresses []string
	var included []string
	var excluded []string

	for _, pattern := range patterns {
		if rest, ok := strings.CutPrefix(pattern, "!"); ok {
			excluded = append(excluded, rest)
		} else {
			included = append(included, pattern)
		}
	}
	if len(included) == 0 {
		included = []string{"*"}
	}

	var interfaces []net.Interface
	loadInterfaces := func() error {
		if interfaces != nil {
			return nil
		}
		found, err := net.Interfaces()
		if err != nil {
			return fmt.Errorf("failed to get network interfaces: %w", err)
		}
		interfaces = found
		return nil
	}

	for _, pattern := range included {
		if _, _, err := net.SplitHostPort(pattern); err == nil {
			addresses = append(addresses, pattern)
			log.Debug("[network] Added explicit address: %s", pattern)
			continue
		}

		if ip := net.ParseIP(pattern); ip != nil {
			addresses = append(addresses, net.JoinHostPort(pattern, port))
			log.Debug("[network] Added explicit IP address: %s", pattern)
			continue
		}

		if err := loadInterfaces(); err != nil {
			return nil, err
		}

		match := pattern
		if pattern == "all" {
			match = "*"
		}
		for _, iface := range interfaces {
			if !shouldIncludeInterface(iface.Name, []string{match}, excluded) {
				continue
			}
			for _, addr := range getInterfaceAddresses(iface) {
				addresses = append(addresses, net.JoinHostPort(addr, port))
				log.Debug("[network] Added interface %s (%s)", iface.Name, addr)
			}
		}
	}

	addresses = removeDuplicateAddresses(addresses)
	if len(addresses) == 0 {
		return []string{":" + port}, fmt.Errorf("no matching interfaces found for patterns %v, falling back to all interfaces", patterns)
	}

	log.Verbose("[network] Resolved %d listen addresses from patterns %v", len(addresses), patterns)
	return addresses, nil
}

func shouldIncludeInterface(name string, includePatterns, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if matchesPattern(name, pattern) {
			log.Trace("[network] Interface %s excluded by pattern !%s", name, pattern)
			return false
		}
	}
	for _, pattern := range includePatterns {
		if matchesPattern(name, pattern) {
			return true
		}
	}
	return false
}

func matchesPattern(str, pattern string) bool {
	if pattern == "*" {
		return true
	}
	matched, err := filepath.Match(pattern, str)
	if err != nil {
		log.Warn("[network] Invalid pattern '%s': %v", pattern, err)
		return false
	}
	return matched
}

// IPv4 only, and only for interfaces that are up
func getInterfaceAddresses(iface net.Interface) []string {
	if iface.Flags&net.FlagUp == 0 {
		return nil
	}

	addrs, err := iface.Addrs()
	if err != nil {
		log.Warn("[network] Failed to get addresses for interface %s: %v", iface.Name, err)
		return nil
	}

	var addresses []string
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok {
			if ip := ipNet.IP.To4(); ip != nil {
				addresses = append(addresses, ip.String())
			}
		}
	}
	return addresses
}

func removeDuplicateAddresses(addresses []string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, addr := range addresses {
		if !seen[addr] {
			seen[addr] = true
			unique = append(unique, addr)
		}
	}
	return unique
}

// ValidateListenPatterns rejects malformed globs before anything is resolved
func ValidateListenPatterns(patterns []string) error {
	for _, pattern := range patterns {
		clean := strings.TrimPrefix(pattern, "!")
		if clean == "" {
			return fmt.Errorf("empty listen pattern")
		}
		if clean == "all" || clean == "*" || net.ParseIP(clean) != nil {
			continue
		}
		if _, _, err := net.SplitHostPort(clean); err == nil {
			continue
		}
		if _, err := filepath.Match(clean, "test"); err != nil {
			return fmt.Errorf("invalid pattern '%s': %w", pattern, err)
		}
	}
	return nil
}
