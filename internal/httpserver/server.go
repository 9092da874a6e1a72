// internal/httpserver/server.go
//
// HTTP wiring for the spectrum round server.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", GET /api/health, GET /api/stats.
//   - Round endpoints: POST /api/round, POST /api/reveal.
//   - Mapping service failures onto the machine-readable error codes.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - Unknown, expired, and already-revealed rounds all surface as the same
//     unknown_or_expired_round code; the ambiguity is intentional.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/wavelength-party/go-server/internal/history"
	"github.com/wavelength-party/go-server/internal/round"
)

// Server bundles router, round service, and history store.
type Server struct {
	r    *chi.Mux
	svc  *round.Service
	hist *history.Store
}

// New constructs a Server, installs middleware, and registers routes.
// hist may be nil; /api/stats then reports an error.
func New(svc *round.Service, hist *history.Store, clientOrigin string) *Server {
	s := &Server{r: chi.NewRouter(), svc: svc, hist: hist}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(60 * time.Second)) // bound handler time; generation can be slow
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(clientOrigin))              // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"spectrum-go","endpoints":["GET /api/health","POST /api/round","POST /api/reveal","GET /api/stats"]}`))
	})
	s.r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Post("/api/round", s.handleCreateRound)
	s.r.Post("/api/reveal", s.handleReveal)
	s.r.Get("/api/stats", s.handleStats)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ ROUNDS -------------------------------------

// createRoundReq/Res payloads for POST /api/round.
type createRoundReq struct {
	Theme string `json:"theme"`
}
type createRoundRes struct {
	RoundID       string `json:"roundId"`
	Theme         string `json:"theme"`
	LeftAnchor    string `json:"leftAnchor"`
	RightAnchor   string `json:"rightAnchor"`
	SpectrumLabel string `json:"spectrumLabel"`
	Clue          string `json:"clue"`
}

// generationErrRes carries upstream failure detail for 500 responses.
type generationErrRes struct {
	Error   string `json:"error"`
	Details any    `json:"details"`
}

// handleCreateRound sets up a round and returns its public view. The hidden
// target never appears in this response.
func (s *Server) handleCreateRound(w http.ResponseWriter, r *http.Request) {
	var req createRoundReq
	_ = json.NewDecoder(r.Body).Decode(&req) // missing/bad body → empty theme

	out, err := s.svc.Create(r.Context(), req.Theme)
	if err != nil {
		var invalid *round.InvalidContentError
		var genErr *round.GenerationError
		switch {
		case errors.Is(err, round.ErrThemeRequired):
			http.Error(w, `{"error":"theme is required"}`, http.StatusBadRequest)
		case errors.As(err, &invalid):
			log.Error().Err(err).Msg("model output invalid")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(generationErrRes{Error: "model_output_invalid", Details: invalid.Details})
		case errors.As(err, &genErr):
			log.Error().Err(err).Msg("generation failed")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(generationErrRes{Error: "generation_failed", Details: genErr.Err.Error()})
		default:
			log.Error().Err(err).Msg("create round")
			http.Error(w, `{"error":"internal_error"}`, http.StatusInternalServerError)
		}
		return
	}

	_ = json.NewEncoder(w).Encode(createRoundRes{
		RoundID:       out.ID,
		Theme:         out.Theme,
		LeftAnchor:    out.Anchors.Left,
		RightAnchor:   out.Anchors.Right,
		SpectrumLabel: out.Anchors.Label,
		Clue:          out.Clue,
	})
}

// revealReq/Res payloads for POST /api/reveal.
type revealReq struct {
	RoundID string       `json:"roundId"`
	Guess   *json.Number `json:"guess"`
}
type revealRes struct {
	Target   int    `json:"target"`
	Distance int    `json:"distance"`
	Score    string `json:"score"`
}

// handleReveal validates the guess, then consumes the round. Validation runs
// before the consume, so a rejected guess leaves the round playable.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	var req revealReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"guess must be an integer 0-100"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.RoundID) == "" {
		http.Error(w, `{"error":"unknown_or_expired_round"}`, http.StatusBadRequest)
		return
	}
	if req.Guess == nil {
		http.Error(w, `{"error":"guess is required"}`, http.StatusBadRequest)
		return
	}
	guess, err := strconv.Atoi(req.Guess.String())
	if err != nil {
		http.Error(w, `{"error":"guess must be an integer 0-100"}`, http.StatusBadRequest)
		return
	}

	res, err := s.svc.Reveal(r.Context(), req.RoundID, guess)
	if err != nil {
		switch {
		case errors.Is(err, round.ErrGuessOutOfRange):
			http.Error(w, `{"error":"guess out of range"}`, http.StatusBadRequest)
		case errors.Is(err, round.ErrRoundNotFound):
			http.Error(w, `{"error":"unknown_or_expired_round"}`, http.StatusBadRequest)
		default:
			log.Error().Err(err).Msg("reveal round")
			http.Error(w, `{"error":"internal_error"}`, http.StatusInternalServerError)
		}
		return
	}

	_ = json.NewEncoder(w).Encode(revealRes{Target: res.Target, Distance: res.Distance, Score: res.Message()})
}

// ------------------------------ STATS --------------------------------------

// handleStats reports aggregate round counters from the history table.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.hist == nil {
		http.Error(w, `{"error":"stats_unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	st, err := s.hist.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load stats")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}
