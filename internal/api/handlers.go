package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"launchfast/internal/cache"
	"launchfast/internal/db"
	"launchfast/internal/engine"
	"launchfast/internal/logger"
	"launchfast/internal/metrics"
	"launchfast/internal/scoring"
)

// calculationRequest carries the audit fields shared by scoring requests.
type calculationRequest struct {
	UserID      string `json:"userId"`
	ContextType string `json:"contextType"`
	Reason      string `json:"reason,omitempty"`
}

func (cr calculationRequest) context() engine.Context {
	t := engine.ContextType(cr.ContextType)
	switch t {
	case engine.ContextInitial, engine.ContextOverride, engine.ContextRecalculation, engine.ContextDeletion:
	default:
		t = engine.ContextInitial
	}
	return engine.NewContext(t, cr.UserID, cr.Reason)
}

type scoreProductRequest struct {
	calculationRequest
	Product *engine.Product `json:"product"`
}

type scoreProductResponse struct {
	Grade     string                `json:"grade"`
	Score     float64               `json:"score"`
	Breakdown scoring.Breakdown     `json:"breakdown"`
	Metrics   engine.ProductMetrics `json:"metrics"`
	ContextID string                `json:"contextId"`
}

func (s *Server) handleScoreProduct(w http.ResponseWriter, r *http.Request) {
	var req scoreProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Product == nil {
		writeError(w, http.StatusBadRequest, "product is required")
		return
	}

	ctx := req.context()
	e := engine.New(ctx)
	res, m := e.Grade(req.Product)

	metrics.GradesComputed.WithLabelValues(metrics.GradeBand(res.Grade)).Inc()
	metrics.FallbacksApplied.Add(float64(len(m.ValidationErrors)))

	if s.db != nil && req.Product.ASIN != "" {
		if _, err := s.db.SaveScore(req.Product.ASIN, res, ctx); err != nil {
			logger.Warn("API", fmt.Sprintf("score not persisted: %v", err))
		}
		if err := s.db.SaveProduct(req.Product); err != nil {
			logger.Warn("API", fmt.Sprintf("product not persisted: %v", err))
		}
	}

	writeJSON(w, http.StatusOK, scoreProductResponse{
		Grade:     res.Grade,
		Score:     res.Score,
		Breakdown: res.Breakdown,
		Metrics:   m,
		ContextID: ctx.ID,
	})
}

type candidatesRequest struct {
	Candidates []scoring.Candidate `json:"candidates"`
}

type rankedCandidate struct {
	Candidate scoring.Candidate      `json:"candidate"`
	Result    scoring.CandidateScore `json:"result"`
}

// handleScoreCandidates pre-ranks a scraped candidate pool with the loose
// 0-100 heuristic, best first. This never touches the verified grading path.
func (s *Server) handleScoreCandidates(w http.ResponseWriter, r *http.Request) {
	var req candidatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Candidates) == 0 {
		writeError(w, http.StatusBadRequest, "candidates are required")
		return
	}

	ranked := make([]rankedCandidate, len(req.Candidates))
	for i, c := range req.Candidates {
		ranked[i] = rankedCandidate{Candidate: c, Result: scoring.ScoreCandidate(c)}
	}
	metrics.CandidatesScored.Add(float64(len(ranked)))

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})
	writeJSON(w, http.StatusOK, map[string]any{"candidates": ranked})
}

type scoreMarketRequest struct {
	calculationRequest
	Products []*engine.Product `json:"products"`
}

func (s *Server) handleScoreMarket(w http.ResponseWriter, r *http.Request) {
	var req scoreMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	key := cache.Key(req.Products)
	if s.cache != nil {
		if cached, ok := s.cache.Get(r.Context(), key); ok {
			metrics.CacheHits.WithLabelValues("hit").Inc()
			writeJSON(w, http.StatusOK, cached)
			return
		}
		metrics.CacheHits.WithLabelValues("miss").Inc()
	}

	ctx := req.context()
	res := engine.New(ctx).MarketMetrics(req.Products)

	metrics.MarketsScored.WithLabelValues(strconv.FormatBool(res.Validation.IsValid)).Inc()
	metrics.FallbacksApplied.Add(float64(len(res.Metadata.FallbacksUsed)))

	if s.cache != nil {
		s.cache.Set(r.Context(), key, res)
	}
	if s.db != nil {
		if _, err := s.db.SaveMarketRun(res); err != nil {
			logger.Warn("API", fmt.Sprintf("market run not persisted: %v", err))
		}
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products := s.db.ListProducts(limit)
	if products == nil {
		products = []*engine.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (s *Server) handleScoreHistory(w http.ResponseWriter, r *http.Request) {
	asin := chi.URLParam(r, "asin")
	if asin == "" {
		writeError(w, http.StatusBadRequest, "asin is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	history := s.db.ScoreHistory(asin, limit)
	if history == nil {
		history = []db.ScoreRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"asin": asin, "scores": history})
}

func (s *Server) handleListMarketRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs := s.db.ListMarketRuns(limit)
	if runs == nil {
		runs = []db.MarketRunRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}
