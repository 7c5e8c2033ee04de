// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package api

import (
	"zonemap/pkg/util"

	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"time"
)

func cutPair(pair string) (string, string, bool) {
	id, token, ok := strings.Cut(pair, "=")
	id = strings.TrimSpace(id)
	token = strings.TrimSpace(token)
	return id, token, ok && id != "" && token != ""
}

func remoteIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// recordFailedAttempt tracks a failed authentication attempt from an IP
func (s *Server) recordFailedAttempt(remoteAddr string, clientID string, reason string) {
	ip := remoteIP(remoteAddr)

	s.attemptsMutex.Lock()
	defer s.attemptsMutex.Unlock()

	now := time.Now()
	tracker, exists := s.failedAttempts[ip]
	if !exists || now.Sub(tracker.FirstFailed) >= time.Hour {
		tracker = &FailedAttemptTracker{FirstFailed: now}
		s.failedAttempts[ip] = tracker
	}
	tracker.Count++
	tracker.LastFailed = now

	// Log with increasing severity based on attempt count
	if tracker.Count >= 10 {
		s.logger.Error("SECURITY: %d failed auth attempts from %s (client_id: %s, reason: %s)",
			tracker.Count, ip, clientID, reason)
	} else if tracker.Count >= 5 {
		s.logger.Warn("Multiple failed auth attempts from %s: %d attempts (client_id: %s, reason: %s)",
			ip, tracker.Count, clientID, reason)
	} else {
		s.logger.Verbose("Failed auth attempt from %s (client_id: %s, reason: %s)", ip, clientID, reason)
	}
}

// isRateLimited reports more than 20 failed attempts within the last hour
func (s *Server) isRateLimited(remoteAddr string) bool {
	s.attemptsMutex.RLock()
	defer s.attemptsMutex.RUnlock()

	tracker, exists := s.failedAttempts[remoteIP(remoteAddr)]
	return exists && tracker.Count >= 20 && time.Since(tracker.FirstFailed) < time.Hour
}

// cleanupFailedAttempts removes records older than 24 hours
func (s *Server) cleanupFailedAttempts() {
	s.attemptsMutex.Lock()
	defer s.attemptsMutex.Unlock()

	cleanedCount := 0
	for ip, tracker := range s.failedAttempts {
		if time.Since(tracker.FirstFailed) > 24*time.Hour {
			delete(s.failedAttempts, ip)
			cleanedCount++
		}
	}

	if cleanedCount > 0 {
		s.logger.Debug("Cleaned up %d old failed attempt records", cleanedCount)
	}
}

// resetFailedAttempts clears failed attempts for an IP (called on successful auth)
func (s *Server) resetFailedAttempts(remoteAddr string) {
	ip := remoteIP(remoteAddr)

	s.attemptsMutex.Lock()
	defer s.attemptsMutex.Unlock()

	if tracker, exists := s.failedAttempts[ip]; exists && tracker.Count > 0 {
		s.logger.Debug("Clearing %d failed attempts for %s after successful auth", tracker.Count, ip)
		delete(s.failedAttempts, ip)
	}
}

// authenticateClient validates the Authorization and X-Client-ID headers
func (s *Server) authenticateClient(r *http.Request) (string, bool) {
	connID := getConnectionID(r)

	if s.isRateLimited(r.RemoteAddr) {
		s.logger.Warn("[%s] SECURITY: Rate limited IP attempted connection: %s", connID, r.RemoteAddr)
		return "", false
	}

	authHeader := r.Header.Get("Authorization")
	clientID := r.Header.Get("X-Client-ID")
	s.logger.Trace("[%s] Auth headers - Authorization: '%s', X-Client-ID: '%s'",
		connID, util.MaskSensitiveValue(authHeader), clientID)

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		s.recordFailedAttempt(r.RemoteAddr, clientID, "missing/invalid Authorization header")
		return "", false
	}
	if clientID == "" {
		s.recordFailedAttempt(r.RemoteAddr, "unknown", "missing X-Client-ID header")
		return "", false
	}

	expected, exists := s.opts.Clients[clientID]
	if !exists {
		s.recordFailedAttempt(r.RemoteAddr, clientID, "unknown client_id")
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) != 1 {
		s.recordFailedAttempt(r.RemoteAddr, clientID, "invalid token")
		return "", false
	}

	s.resetFailedAttempts(r.RemoteAddr)
	return clientID, true
}
