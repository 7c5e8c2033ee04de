// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package util

import (
	"os"
	"regexp"
	"strings"
)

// envReference matches environment variable references like ${ENV_VAR}
var envReference = regexp.MustCompile(`\$\{([^}]+)\}`)

// ReadSecretValue reads a value from a file if it starts with "file://",
// reads from environment variable if it starts with "env://",
// otherwise returns the value with any ${VAR} references expanded
func ReadSecretValue(value string) string {
	if strings.HasPrefix(value, "file://") {
		content, err := os.ReadFile(strings.TrimPrefix(value, "file://"))
		if err != nil {
			return value
		}
		return strings.TrimSpace(string(content))
	}

	if strings.HasPrefix(value, "env://") {
		if envValue := os.Getenv(strings.TrimPrefix(value, "env://")); envValue != "" {
			return envValue
		}
		return value
	}

	return ExpandEnvReferences(value)
}

// ExpandEnvReferences replaces ${VAR} with the variable's value; unknown variables are kept verbatim
func ExpandEnvReferences(content string) string {
	return envReference.ReplaceAllStringFunc(content, func(match string) string {
		name := match[2 : len(match)-1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return match
	})
}
