// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package cftest serves the subset of the Cloudflare v4 API used by zonemap
// from memory, for tests.
package cftest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Record is a DNS record held by a fake zone
type Record struct {
	Type    string
	Name    string
	Content string
}

// A returns an A-record
func A(name, content string) Record {
	return Record{Type: "A", Name: name, Content: content}
}

// Zone is a fake zone
type Zone struct {
	ID      string
	Name    string
	Records []Record
}

// Server is an httptest server emulating the zones and dns_records endpoints.
// Accounts are keyed by bearer token.
type Server struct {
	*httptest.Server

	mu             sync.Mutex
	accounts       map[string][]*Zone
	zones          map[string]*Zone
	failZonePage   map[string]int
	rejectZonePage map[string]int
	failRecords    map[string]bool
	rejectRecords  map[string]bool
	delay          map[string]time.Duration
	requests       []string
}

// NewServer starts a fake API; callers must Close it
func NewServer() *Server {
	s := &Server{
		accounts:       make(map[string][]*Zone),
		zones:          make(map[string]*Zone),
		failZonePage:   make(map[string]int),
		rejectZonePage: make(map[string]int),
		failRecords:    make(map[string]bool),
		rejectRecords:  make(map[string]bool),
		delay:          make(map[string]time.Duration),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /zones", s.handleZones)
	mux.HandleFunc("GET /zones/{id}/dns_records", s.handleRecords)
	s.Server = httptest.NewServer(mux)
	return s
}

// AddAccount registers zones visible to token
func (s *Server) AddAccount(token string, zones ...Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range zones {
		z := zones[i]
		s.accounts[token] = append(s.accounts[token], &z)
		s.zones[z.ID] = &z
	}
	if _, ok := s.accounts[token]; !ok {
		s.accounts[token] = nil
	}
}

// SetRecords replaces the records of an existing zone
func (s *Server) SetRecords(zoneID string, records ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if z, ok := s.zones[zoneID]; ok {
		z.Records = records
	}
}

// FailZonePage makes the given zone page answer HTTP 500 for token
func (s *Server) FailZonePage(token string, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failZonePage[token] = page
}

// RejectZonePage makes the given zone page answer success=false for token
func (s *Server) RejectZonePage(token string, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectZonePage[token] = page
}

// FailRecords makes the dns_records endpoint of a zone answer HTTP 500
func (s *Server) FailRecords(zoneID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRecords[zoneID] = true
}

// RejectRecords makes the dns_records endpoint of a zone answer HTTP 200 with success=false
func (s *Server) RejectRecords(zoneID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectRecords[zoneID] = true
}

// SetDelay slows down every response for token
func (s *Server) SetDelay(token string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay[token] = d
}

// Requests returns "METHOD path?query" for every request served so far
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

type envelope struct {
	Success    bool              `json:"success"`
	Errors     []json.RawMessage `json:"errors"`
	Messages   []json.RawMessage `json:"messages"`
	Result     interface{}       `json:"result"`
	ResultInfo *resultInfo       `json:"result_info,omitempty"`
}

type resultInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	Count      int `json:"count"`
	Total      int `json:"total_count"`
}

type zoneJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type recordJSON struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	if body.Errors == nil {
		body.Errors = []json.RawMessage{}
	}
	body.Messages = []json.RawMessage{}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func apiError(code int, message string) []json.RawMessage {
	raw, _ := json.Marshal(map[string]interface{}{"code": code, "message": message})
	return []json.RawMessage{raw}
}

// authorize records the request and resolves the bearer token
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.RequestURI())
	_, known := s.accounts[token]
	delay := s.delay[token]
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if !known {
		writeJSON(w, http.StatusForbidden, envelope{Errors: apiError(9109, "Invalid access token")})
		return "", false
	}
	return token, true
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	token, ok := s.authorize(w, r)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failZonePage[token] == page {
		writeJSON(w, http.StatusInternalServerError, envelope{Errors: apiError(10000, "internal error")})
		return
	}

	zones := s.accounts[token]
	totalPages := (len(zones) + perPage - 1) / perPage
	start := (page - 1) * perPage
	end := start + perPage
	if start > len(zones) {
		start = len(zones)
	}
	if end > len(zones) {
		end = len(zones)
	}

	result := make([]zoneJSON, 0, end-start)
	for _, z := range zones[start:end] {
		result = append(result, zoneJSON{ID: z.ID, Name: z.Name})
	}

	body := envelope{
		Success: true,
		Result:  result,
		ResultInfo: &resultInfo{
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
			Count:      len(result),
			Total:      len(zones),
		},
	}
	if s.rejectZonePage[token] == page {
		body = envelope{Success: false, Errors: apiError(1000, "rejected"), Result: []zoneJSON{}}
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	token, ok := s.authorize(w, r)
	if !ok {
		return
	}
	zoneID := r.PathValue("id")
	recordType := r.URL.Query().Get("type")

	s.mu.Lock()
	defer s.mu.Unlock()

	zone, exists := s.zones[zoneID]
	owned := false
	for _, z := range s.accounts[token] {
		if z.ID == zoneID {
			owned = true
			break
		}
	}
	if !exists || !owned {
		writeJSON(w, http.StatusNotFound, envelope{Errors: apiError(7003, fmt.Sprintf("zone %s not found", zoneID))})
		return
	}
	if s.failRecords[zoneID] {
		writeJSON(w, http.StatusInternalServerError, envelope{Errors: apiError(10000, "internal error")})
		return
	}
	if s.rejectRecords[zoneID] {
		writeJSON(w, http.StatusOK, envelope{Success: false, Errors: apiError(1000, "rejected"), Result: []recordJSON{}})
		return
	}

	result := make([]recordJSON, 0, len(zone.Records))
	for i, rec := range zone.Records {
		if recordType != "" && rec.Type != recordType {
			continue
		}
		result = append(result, recordJSON{
			ID:      fmt.Sprintf("%s-%d", zoneID, i),
			Type:    rec.Type,
			Name:    rec.Name,
			Content: rec.Content,
			TTL:     1,
		})
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Result:  result,
		ResultInfo: &resultInfo{
			Page:       1,
			PerPage:    100,
			TotalPages: 1,
			Count:      len(result),
			Total:      len(result),
		},
	})
}
