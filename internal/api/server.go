// Package api provides a RESTful HTTP API server for zero-edit.
//
// SYSTEM ARCHITECTURE ROLE:
// This module implements the HTTP interface layer of the system. It exposes
// deterministic prompt generation and profile inspection over a small REST
// surface with a standard middleware stack and a consistent JSON envelope.
//
// KEY RESPONSIBILITIES:
// - Expose generation, profile listing, statistics, and validation endpoints
// - Implement the middleware stack (logging, CORS, content type, panic recovery)
// - Standardize API responses with a consistent JSON structure
// - Enforce host-level policy such as the 1-64 batch size cap
//
// INTEGRATION POINTS:
// - internal/service/service.go: all business logic runs through the Service
// - internal/errors/handlers.go: HTTPErrorHandler formats error responses
// - internal/storage: profile parsing for POST /api/v1/validate bodies
//
// ENDPOINT STRUCTURE:
// - GET  /api/v1/health                   System health
// - GET  /api/v1/profiles                 Profile listing
// - GET  /api/v1/profiles/{name}          One profile with statistics
// - GET  /api/v1/profiles/{name}/stats    Statistics only
// - GET  /api/v1/generate                 One prompt (profile, seed, index)
// - GET  /api/v1/batch                    Sequential prompts (count 1-64)
// - POST /api/v1/validate                 Validate a posted profile document
//
// The 1-64 batch cap is API policy, not an engine invariant: the engine
// accepts any positive count.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dpshade/zero-edit/internal/errors"
	"github.com/dpshade/zero-edit/internal/models"
	"github.com/dpshade/zero-edit/internal/service"
	"github.com/dpshade/zero-edit/internal/validation"
)

// MaxBatchSize caps the count parameter of /api/v1/batch.
const MaxBatchSize = 64

// APIServer provides an HTTP API with middleware support
type APIServer struct {
	service      *service.Service
	errorHandler *errors.HTTPErrorHandler
	port         int
	server       *http.Server
}

// NewAPIServer creates a new API server instance
func NewAPIServer(svc *service.Service, port int) *APIServer {
	return &APIServer{
		service:      svc,
		errorHandler: errors.NewHTTPErrorHandler(true), // Include details in responses
		port:         port,
	}
}

// Start begins serving HTTP requests with middleware
func (s *APIServer) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/health", s.withMiddleware(s.handleHealth))
	mux.HandleFunc("/api/v1/profiles", s.withMiddleware(s.handleProfiles))
	mux.HandleFunc("/api/v1/profiles/", s.withMiddleware(s.handleProfilesWithName))
	mux.HandleFunc("/api/v1/generate", s.withMiddleware(s.handleGenerate))
	mux.HandleFunc("/api/v1/batch", s.withMiddleware(s.handleBatch))
	mux.HandleFunc("/api/v1/validate", s.withMiddleware(s.handleValidate))

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("API server starting on http://localhost:%d", s.port)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// withMiddleware applies middleware to HTTP handlers
func (s *APIServer) withMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return s.loggingMiddleware(
		s.corsMiddleware(
			s.contentTypeMiddleware(
				s.errorMiddleware(handler),
			),
		),
	)
}

// loggingMiddleware logs HTTP requests
func (s *APIServer) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		duration := time.Since(start)
		log.Printf("[%s] %s %s - %v", r.Method, r.URL.Path, r.RemoteAddr, duration)
	}
}

// corsMiddleware handles CORS headers
func (s *APIServer) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// contentTypeMiddleware sets default content type
func (s *APIServer) contentTypeMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next(w, r)
	}
}

// errorMiddleware handles panics and errors
func (s *APIServer) errorMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic in handler: %v", err)
				appErr := errors.InternalError("Internal server error")
				s.errorHandler.WriteHTTPError(w, appErr)
			}
		}()
		next(w, r)
	}
}

// APIResponse represents a standardized API response
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// writeResponse writes a standardized JSON response
func (s *APIServer) writeResponse(w http.ResponseWriter, data interface{}, message string, statusCode int) {
	response := APIResponse{
		Success:   statusCode < 400,
		Data:      data,
		Message:   message,
		Timestamp: time.Now(),
	}

	w.WriteHeader(statusCode)

	// Use pretty-printed JSON for better readability
	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		// Fallback to compact JSON if marshaling fails
		json.NewEncoder(w).Encode(response)
		return
	}

	w.Write(jsonData)
}

// writeError writes an error response using the error handler
func (s *APIServer) writeError(w http.ResponseWriter, err error) {
	s.errorHandler.WriteHTTPError(w, err)
}

// handleHealth handles GET /api/v1/health
func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		s.writeError(w, errors.NewAppError(errors.ErrCodeInvalidCommand, "Method not allowed"))
		return
	}

	names, err := s.service.ListProfileNames()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeResponse(w, map[string]interface{}{
		"status":       "ok",
		"profileCount": len(names),
		"baseDir":      s.service.BaseDir(),
	}, "", http.StatusOK)
}

// handleProfiles handles GET /api/v1/profiles
func (s *APIServer) handleProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		s.writeError(w, errors.NewAppError(errors.ErrCodeInvalidCommand, "Method not allowed"))
		return
	}

	var profiles []*models.Profile
	var err error
	if query := r.URL.Query().Get("q"); query != "" {
		profiles, err = s.service.SearchProfiles(query)
	} else {
		profiles, err = s.service.ListProfiles()
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	type entry struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Version     string `json:"version,omitempty"`
	}
	out := make([]entry, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, entry{Name: p.Name, Description: p.Summary, Version: p.Version})
	}

	s.writeResponse(w, out, "", http.StatusOK)
}

// handleProfilesWithName handles /api/v1/profiles/{name} and
// /api/v1/profiles/{name}/stats
func (s *APIServer) handleProfilesWithName(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		s.writeError(w, errors.NewAppError(errors.ErrCodeInvalidCommand, "Method not allowed"))
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/profiles/")
	if path == "" {
		s.writeError(w, errors.ValidationError("Profile name is required"))
		return
	}

	name := path
	statsOnly := false
	if strings.HasSuffix(path, "/stats") {
		name = strings.TrimSuffix(path, "/stats")
		statsOnly = true
	}

	stats, err := s.service.DescribeProfile(name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	statsBody := map[string]interface{}{
		"templateCount":     stats.TemplateCount,
		"poolSizes":         stats.PoolSizes,
		"totalCombinations": stats.TotalCombinations.String(),
	}

	if statsOnly {
		s.writeResponse(w, statsBody, "", http.StatusOK)
		return
	}

	profile, err := s.service.GetProfile(name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeResponse(w, map[string]interface{}{
		"name":        profile.Name,
		"description": profile.Summary,
		"version":     profile.Version,
		"templates":   profile.Templates,
		"pools":       profile.Pools,
		"stats":       statsBody,
	}, "", http.StatusOK)
}

// handleGenerate handles GET /api/v1/generate
func (s *APIServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		s.writeError(w, errors.NewAppError(errors.ErrCodeInvalidCommand, "Method not allowed"))
		return
	}

	q := r.URL.Query()
	profileName := q.Get("profile")
	if profileName == "" {
		s.writeError(w, errors.ValidationError("Query parameter 'profile' is required"))
		return
	}

	seed, err := parseUint32Param(q.Get("seed"), "seed")
	if err != nil {
		s.writeError(w, err)
		return
	}
	index, err := parseUint64Param(q.Get("index"), "index")
	if err != nil {
		s.writeError(w, err)
		return
	}

	prompt, err := s.service.GenerateOne(profileName, seed, index, q.Get("prefix"), q.Get("suffix"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeResponse(w, map[string]interface{}{
		"profile": profileName,
		"seed":    seed,
		"index":   index,
		"prompt":  prompt,
	}, "", http.StatusOK)
}

// handleBatch handles GET /api/v1/batch
func (s *APIServer) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		s.writeError(w, errors.NewAppError(errors.ErrCodeInvalidCommand, "Method not allowed"))
		return
	}

	q := r.URL.Query()
	profileName := q.Get("profile")
	if profileName == "" {
		s.writeError(w, errors.ValidationError("Query parameter 'profile' is required"))
		return
	}

	seed, err := parseUint32Param(q.Get("seed"), "seed")
	if err != nil {
		s.writeError(w, err)
		return
	}
	start, err := parseUint64Param(q.Get("start"), "start")
	if err != nil {
		s.writeError(w, err)
		return
	}

	count := 4
	if raw := q.Get("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, errors.ValidationError("Query parameter 'count' must be an integer"))
			return
		}
	}
	if count < 1 || count > MaxBatchSize {
		s.writeError(w, errors.ValidationError(
			fmt.Sprintf("Query parameter 'count' must be between 1 and %d", MaxBatchSize)))
		return
	}

	prompts, err := s.service.GenerateBatch(profileName, seed, start, count, q.Get("prefix"), q.Get("suffix"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeResponse(w, map[string]interface{}{
		"profile": profileName,
		"seed":    seed,
		"start":   start,
		"count":   count,
		"prompts": prompts,
	}, "", http.StatusOK)
}

// handleValidate handles POST /api/v1/validate with a profile document body
func (s *APIServer) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		s.writeError(w, errors.NewAppError(errors.ErrCodeInvalidCommand, "Method not allowed"))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		s.writeError(w, errors.ValidationError("Failed to read request body"))
		return
	}

	var profile models.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		s.writeError(w, errors.MalformedProfileError("document", err))
		return
	}

	result := validation.ValidateProfile(&profile)
	status := http.StatusOK
	if !result.Valid {
		status = http.StatusUnprocessableEntity
	}
	s.writeResponse(w, result, "", status)
}

func parseUint32Param(raw, name string) (uint32, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.ValidationError(fmt.Sprintf("Query parameter '%s' must be a 32-bit unsigned integer", name))
	}
	return uint32(v), nil
}

func parseUint64Param(raw, name string) (uint64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.ValidationError(fmt.Sprintf("Query parameter '%s' must be a 64-bit unsigned integer", name))
	}
	return v, nil
}
