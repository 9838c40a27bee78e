package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rsambing/smart-tour/internal/analysis"
	"github.com/rsambing/smart-tour/internal/model"
	"github.com/rsambing/smart-tour/internal/store"
)

type statusResponse struct {
	Datasets          []store.Staged `json:"datasets"`
	Running           bool           `json:"running"`
	AnalysisAvailable bool           `json:"analysis_available"`
	LastRun           string         `json:"last_run,omitempty"`
	LastError         string         `json:"last_error,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := statusResponse{
		Running:           s.running,
		AnalysisAvailable: s.current != nil,
	}
	if !s.lastRun.IsZero() {
		resp.LastRun = s.lastRun.Format(time.RFC3339)
	}
	if s.lastErr != nil {
		resp.LastError = s.lastErr.Error()
	}
	s.mu.RUnlock()

	resp.Datasets = s.Store.Status()
	writeJSON(w, resp)
}

// handleAnalyze starts an analysis in the background. With ?wait=true it
// runs inline and answers with the KPIs.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.startAnalysis() {
		writeError(w, http.StatusConflict, "analysis already running")
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		if err := s.runAnalysis(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, s.result().KPIs)
		return
	}

	go s.runAnalysis()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "started"})
}

// requireResult writes 404 and returns nil when no analysis has completed.
func (s *Server) requireResult(w http.ResponseWriter) *analysis.Result {
	res := s.result()
	if res == nil {
		writeError(w, http.StatusNotFound, "no analysis available; POST /api/analyze first")
	}
	return res
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	if res := s.requireResult(w); res != nil {
		writeJSON(w, res.KPIs)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if res := s.requireResult(w); res != nil {
		writeJSON(w, res.Summary)
	}
}

func (s *Server) handleProvince(w http.ResponseWriter, r *http.Request) {
	res, gen := s.resultGen()
	if res == nil {
		writeError(w, http.StatusNotFound, "no analysis available; POST /api/analyze first")
		return
	}
	name := mux.Vars(r)["name"]
	key := provinceCacheKey(gen, name)

	if cached, ok := s.cache.Get(key); ok {
		s.Logger.Debug("province cache hit: %s", key)
		writeJSON(w, cached)
		return
	}

	d, ok := res.Province(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown province: "+name)
		return
	}
	s.cache.SetDefault(key, d)
	writeJSON(w, d)
}

func (s *Server) handleSustainability(w http.ResponseWriter, r *http.Request) {
	res := s.requireResult(w)
	if res == nil {
		return
	}
	writeJSON(w, struct {
		Breakdown model.SustainabilityBreakdown `json:"breakdown"`
		Sites     []model.SiteLevel             `json:"sites"`
	}{res.Sustainability, res.SiteLevels})
}

func (s *Server) handleCapacity(w http.ResponseWriter, r *http.Request) {
	res := s.requireResult(w)
	if res == nil {
		return
	}
	writeJSON(w, struct {
		Bands           model.CapacityBands  `json:"bands"`
		TotalCapacity   int64                `json:"total_capacity"`
		HighestCapacity *model.SiteHighlight `json:"highest_capacity"`
		MostAffordable  *model.SiteHighlight `json:"most_affordable"`
	}{res.CapacityBands, res.KPIs.Sustainability.TotalEcoCapacity, res.HighestCapacity, res.MostAffordable})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"error": msg, "code": code})
}
