// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/user7217/OSS-Engine/internal/domain/model"
	"github.com/user7217/OSS-Engine/internal/domain/score"
)

// Default search bounds applied when the request omits them.
const (
	defaultMinGoodFirstIssues = 0
	defaultMaxGoodFirstIssues = 1000
	defaultRecentCommitDays   = 90
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ScoreRepository(ctx context.Context, owner, name string) (score.Record, error)
	SearchAndScore(ctx context.Context, filter model.SearchFilter) ([]model.RepoSummary, error)
}

// Server wires HTTP routes for the scoring API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	scoreHandler  *ScoreHandler
	searchHandler *SearchHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		scoreHandler:  NewScoreHandler(deps),
		searchHandler: NewSearchHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("/search_and_score", MetricsMiddleware(s.searchHandler.HandleSearch, "search_and_score"))
}

// scoreRequest mirrors the request schema for POST /score.
type scoreRequest struct {
	Owner    string `json:"owner"`
	RepoName string `json:"repo_name"`
}

func (s scoreRequest) validate() error {
	switch {
	case strings.TrimSpace(s.Owner) == "":
		return errors.New("missing owner")
	case strings.TrimSpace(s.RepoName) == "":
		return errors.New("missing repo_name")
	}
	return nil
}

// searchRequest mirrors the request schema for POST /search_and_score.
// Pointer fields distinguish "omitted" from an explicit zero.
type searchRequest struct {
	Keywords           string   `json:"keywords"`
	Language           string   `json:"language"`
	MinGoodFirstIssues *int     `json:"min_good_first_issues"`
	MaxGoodFirstIssues *int     `json:"max_good_first_issues"`
	Topics             []string `json:"topics"`
	RecentCommitDays   *int     `json:"recent_commit_days"`
}

func (s searchRequest) validate() error {
	if s.MinGoodFirstIssues != nil && *s.MinGoodFirstIssues < 0 {
		return errors.New("min_good_first_issues must not be negative")
	}
	if s.MaxGoodFirstIssues != nil && *s.MaxGoodFirstIssues < 0 {
		return errors.New("max_good_first_issues must not be negative")
	}
	if s.RecentCommitDays != nil && *s.RecentCommitDays < 0 {
		return errors.New("recent_commit_days must not be negative")
	}
	return nil
}

// filter translates the request into a domain search filter, applying
// the documented defaults for omitted bounds.
func (s searchRequest) filter() model.SearchFilter {
	f := model.SearchFilter{
		Keywords:           strings.TrimSpace(s.Keywords),
		Language:           strings.TrimSpace(s.Language),
		Topics:             s.Topics,
		MinGoodFirstIssues: defaultMinGoodFirstIssues,
		MaxGoodFirstIssues: defaultMaxGoodFirstIssues,
		RecentCommitDays:   defaultRecentCommitDays,
	}
	if s.MinGoodFirstIssues != nil {
		f.MinGoodFirstIssues = *s.MinGoodFirstIssues
	}
	if s.MaxGoodFirstIssues != nil {
		f.MaxGoodFirstIssues = *s.MaxGoodFirstIssues
	}
	if s.RecentCommitDays != nil {
		f.RecentCommitDays = *s.RecentCommitDays
	}
	return f
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
