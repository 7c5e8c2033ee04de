// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		str     string
		pattern string
		want    bool
	}{
		{"eth0", "eth*", true},
		{"eth0", "enp*", false},
		{"docker0", "docker*", true},
		{"anything", "*", true},
		{"eth1", "eth0", false},
		{"eth0", "eth[0", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesPattern(tt.str, tt.pattern), "%s vs %s", tt.str, tt.pattern)
	}
}

func TestShouldIncludeInterface(t *testing.T) {
	assert.True(t, shouldIncludeInterface("eth0", []string{"*"}, nil))
	assert.False(t, shouldIncludeInterface("docker0", []string{"*"}, []string{"docker*"}))
	assert.False(t, shouldIncludeInterface("wlan0", []string{"eth*"}, nil))
}

func TestResolveListenAddresses(t *testing.T) {
	addrs, err := ResolveListenAddresses(nil, "8080")
	require.NoError(t, err)
	assert.Equal(t, []string{":8080"}, addrs)

	addrs, err = ResolveListenAddresses([]string{"127.0.0.1", "::1", "127.0.0.1"}, "8080")
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1:8080", "[::1]:8080"}, addrs)

	addrs, err = ResolveListenAddresses([]string{"localhost:9000"}, "8080")
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9000"}, addrs)

	addrs, err = ResolveListenAddresses([]string{"no-such-interface-zz*"}, "8080")
	assert.Error(t, err)
	assert.Equal(t, []string{":8080"}, addrs)
}

func TestValidateListenPatterns(t *testing.T) {
	assert.NoError(t, ValidateListenPatterns([]string{"all", "eth*", "!docker*", "10.0.0.1", "localhost:8080"}))
	assert.Error(t, ValidateListenPatterns([]string{"eth[0"}))
	assert.Error(t, ValidateListenPatterns([]string{"!"}))
}

func TestRemoveDuplicateAddresses(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, removeDuplicateAddresses([]string{"a", "b", "a"}))
}
