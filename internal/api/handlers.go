package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/tui-forts/internal/games/forts"
	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
	"github.com/vovakirdan/tui-forts/internal/storage"
)

const maxListLimit = 100

// FortSummary is a saved fort without its snapshot.
type FortSummary struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Round    int       `json:"round"`
	Phase    string    `json:"phase"`
	Defense  int       `json:"defense"`
	GridSize int       `json:"gridSize"`
	SavedAt  time.Time `json:"savedAt"`
}

// FortDetail is a saved fort with its siege statistics and snapshot.
type FortDetail struct {
	FortSummary
	Stats    StatsJSON       `json:"stats"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// StatsJSON aggregates the recorded sieges of a fort.
type StatsJSON struct {
	Rounds       int        `json:"rounds"`
	TotalDamaged int        `json:"totalDamaged"`
	AvgDamaged   float64    `json:"avgDamaged"`
	BestDefense  int        `json:"bestDefense"`
	LastSiege    *time.Time `json:"lastSiege,omitempty"`
}

// RoundJSON is one recorded siege.
type RoundJSON struct {
	Round      int          `json:"round"`
	Damaged    int          `json:"damaged"`
	Defense    int          `json:"defense"`
	Towers     int          `json:"towers"`
	Structures int          `json:"structures"`
	Resources  fort.Amounts `json:"resources"`
	At         time.Time    `json:"at"`
}

func summary(rec storage.FortRecord) FortSummary {
	return FortSummary{
		ID:       rec.ID,
		Name:     rec.FortName,
		Round:    rec.Round,
		Phase:    rec.Phase,
		Defense:  rec.Defense,
		GridSize: rec.GridSize,
		SavedAt:  rec.SavedAt,
	}
}

// ListForts handles GET /api/forts - returns saved forts.
// ?sort=defense orders by defense instead of save time.
func (s *Server) ListForts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil || limit <= 0 || limit > maxListLimit {
		s.respondError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	var records []storage.FortRecord
	switch sort := r.URL.Query().Get("sort"); sort {
	case "", "recent":
		records, err = s.store.ListForts(limit)
	case "defense":
		records, err = s.store.TopForts(limit)
	default:
		s.respondError(w, http.StatusBadRequest, "Invalid sort: "+sort)
		return
	}
	if err != nil {
		s.logger.Error("cannot list forts", "error", err)
		s.respondError(w, http.StatusInternalServerError, "Cannot list forts")
		return
	}

	out := make([]FortSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, summary(rec))
	}
	s.respondJSON(w, http.StatusOK, out)
}

// GetFort handles GET /api/forts/{id} - returns one fort with its snapshot.
func (s *Server) GetFort(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadFort(w, r)
	if !ok {
		return
	}

	stats, err := s.store.GetFortStats(rec.ID)
	if err != nil {
		s.logger.Error("cannot load fort stats", "id", rec.ID, "error", err)
		s.respondError(w, http.StatusInternalServerError, "Cannot load fort stats")
		return
	}

	detail := FortDetail{
		FortSummary: summary(*rec),
		Stats: StatsJSON{
			Rounds:       stats.Rounds,
			TotalDamaged: stats.TotalDamaged,
			AvgDamaged:   stats.AvgDamaged,
			BestDefense:  stats.BestDefense,
		},
		Snapshot: json.RawMessage(rec.Snapshot),
	}
	if !stats.LastSiege.IsZero() {
		detail.Stats.LastSiege = &stats.LastSiege
	}
	if !json.Valid(rec.Snapshot) {
		detail.Snapshot = nil
	}
	s.respondJSON(w, http.StatusOK, detail)
}

// GetRounds handles GET /api/forts/{id}/rounds - returns siege history.
func (s *Server) GetRounds(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadFort(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil || limit < 0 {
		s.respondError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	rounds, err := s.store.RoundHistory(rec.ID, limit)
	if err != nil {
		s.logger.Error("cannot load rounds", "id", rec.ID, "error", err)
		s.respondError(w, http.StatusInternalServerError, "Cannot load rounds")
		return
	}

	out := make([]RoundJSON, 0, len(rounds))
	for _, rr := range rounds {
		out = append(out, RoundJSON{
			Round:      rr.Round,
			Damaged:    rr.Damaged,
			Defense:    rr.Defense,
			Towers:     rr.Towers,
			Structures: rr.Structures,
			Resources:  fort.Amounts{Wood: rr.Wood, Stone: rr.Stone, Food: rr.Food},
			At:         rr.CreatedAt,
		})
	}
	s.respondJSON(w, http.StatusOK, out)
}

// GetMap handles GET /api/forts/{id}/map - returns a top-down text map.
func (s *Server) GetMap(w http.ResponseWriter, r *http.Request) {
	state, ok := s.loadState(w, r)
	if !ok {
		return
	}
	underground, _ := strconv.ParseBool(r.URL.Query().Get("underground"))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(forts.PlainMap(state.Grid, underground) + "\n"))
}

// loadFort resolves the {id} URL parameter, writing a 404 when missing.
func (s *Server) loadFort(w http.ResponseWriter, r *http.Request) (*storage.FortRecord, bool) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.LoadFort(id)
	if err != nil {
		s.logger.Error("cannot load fort", "id", id, "error", err)
		s.respondError(w, http.StatusInternalServerError, "Cannot load fort")
		return nil, false
	}
	if rec == nil {
		s.respondError(w, http.StatusNotFound, "Fort not found: "+id)
		return nil, false
	}
	return rec, true
}

// loadState decodes the saved snapshot of the {id} fort.
func (s *Server) loadState(w http.ResponseWriter, r *http.Request) (fort.State, bool) {
	rec, ok := s.loadFort(w, r)
	if !ok {
		return fort.State{}, false
	}
	state, err := fort.Decode(rec.Snapshot, s.clock.Now(), forts.SettingsFromConfig(s.forts))
	if err != nil {
		s.logger.Warn("corrupt snapshot", "id", rec.ID, "error", err)
		s.respondError(w, http.StatusUnprocessableEntity, "Corrupt snapshot")
		return fort.State{}, false
	}
	return state, true
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}

// respondJSON writes a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("cannot encode JSON", "error", err)
	}
}

// respondError writes an error JSON response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
