// Package api exposes the simulation over HTTP and WebSocket. REST endpoints
// carry operator commands and snapshots; the WebSocket hub pushes events and
// per-tick state so dashboards stay live without polling.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/signalsfoundry/planetary-defense-sim/internal/logging"
	"github.com/signalsfoundry/planetary-defense-sim/internal/observability"
	"github.com/signalsfoundry/planetary-defense-sim/internal/sim"
	"github.com/signalsfoundry/planetary-defense-sim/model"
)

// Server binds engine operations to HTTP routes.
type Server struct {
	engine  *sim.Engine
	hub     *Hub
	log     logging.Logger
	metrics *observability.EngineCollector
}

// NewServer wires the engine to the API surface. Event-log appends and clock
// ticks are mirrored to the WebSocket hub.
func NewServer(engine *sim.Engine, hub *Hub, metrics *observability.EngineCollector, log logging.Logger) *Server {
	if log == nil {
		log = logging.Noop()
	}
	s := &Server{engine: engine, hub: hub, log: log, metrics: metrics}

	if hub != nil {
		engine.Events().SetSink(func(e model.EventEntry) {
			hub.BroadcastJSON("event", e)
		})
		engine.Clock().AddListener(func(simTime time.Time, delta time.Duration) {
			hub.BroadcastJSON("state", s.stateSnapshot())
		})
	}
	return s
}

// Handler returns the fully wrapped root handler: router, CORS, panic
// recovery, and (when accessLog is non-nil) combined-format access logging.
func (s *Server) Handler(accessLog io.Writer) http.Handler {
	var h http.Handler = s.Router()
	if accessLog != nil {
		h = handlers.CombinedLoggingHandler(accessLog, h)
	}
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return h
}

// Router builds the route table. Every route is wrapped with the metrics and
// tracing middleware under its route label.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	s.route(r, "objects_list", http.MethodGet, "/api/objects", s.handleObjects)
	s.route(r, "object_get", http.MethodGet, "/api/objects/{id}", s.handleObject)
	s.route(r, "object_report", http.MethodGet, "/api/objects/{id}/report", s.handleReport)
	s.route(r, "object_track", http.MethodPost, "/api/objects/{id}/track", s.handleTrack)
	s.route(r, "object_alert", http.MethodPost, "/api/objects/{id}/alert", s.handleAlert)
	s.route(r, "object_evacuate", http.MethodPost, "/api/objects/{id}/evacuate", s.handleEvacuate)
	s.route(r, "object_deflect", http.MethodPost, "/api/objects/{id}/deflect", s.handleDeflect)
	s.route(r, "object_select", http.MethodPost, "/api/objects/{id}/select", s.handleSelect)

	s.route(r, "events_list", http.MethodGet, "/api/events", s.handleEvents)
	s.route(r, "ledger_get", http.MethodGet, "/api/ledger", s.handleLedger)
	s.route(r, "state_get", http.MethodGet, "/api/state", s.handleState)

	s.route(r, "clock_pause", http.MethodPost, "/api/clock/pause", s.handlePause)
	s.route(r, "clock_resume", http.MethodPost, "/api/clock/resume", s.handleResume)
	s.route(r, "clock_rate", http.MethodPost, "/api/clock/rate", s.handleRate)
	s.route(r, "scenario_reset", http.MethodPost, "/api/reset", s.handleReset)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	if s.hub != nil {
		r.HandleFunc("/ws", s.hub.ServeWs).Methods(http.MethodGet)
	}
	return r
}

func (s *Server) route(r *mux.Router, name, method, path string, fn http.HandlerFunc) {
	var h http.Handler = fn
	if s.metrics != nil {
		h = s.metrics.Middleware(name, h)
	}
	h = observability.TraceMiddleware(name, h)
	r.Handle(path, h).Methods(method)
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOfObjects(s.engine.Objects()))
}

func (s *Server) handleObject(w http.ResponseWriter, r *http.Request) {
	a, err := s.engine.Object(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfAsteroid(a))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.Report(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, s.engine.Track)
}

func (s *Server) handleAlert(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, s.engine.Alert)
}

func (s *Server) handleEvacuate(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, s.engine.Evacuate)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, s.engine.Select)
}

// action runs a single-object command and responds with the refreshed object
// view on success.
func (s *Server) action(w http.ResponseWriter, r *http.Request, fn func(string) error) {
	id := mux.Vars(r)["id"]
	if err := fn(id); err != nil {
		writeError(w, err)
		return
	}
	a, err := s.engine.Object(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfAsteroid(a))
}

type deflectRequest struct {
	Type string `json:"type"`
}

func (s *Server) handleDeflect(w http.ResponseWriter, r *http.Request) {
	var req deflectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	mt, ok := model.MissionTypeFromString(req.Type)
	if !ok {
		writeErrorStatus(w, http.StatusBadRequest, "unknown mission type: "+req.Type)
		return
	}

	id := mux.Vars(r)["id"]
	if err := s.engine.LaunchMission(id, mt); err != nil {
		writeError(w, err)
		return
	}
	a, err := s.engine.Object(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfAsteroid(a))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Events().Snapshot())
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOfLedger(s.engine.Ledger()))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stateSnapshot())
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.engine.Clock().Pause()
	writeJSON(w, http.StatusOK, s.clockStatus())
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.engine.Clock().Resume()
	writeJSON(w, http.StatusOK, s.clockStatus())
}

type rateRequest struct {
	Rate float64 `json:"rate"`
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rate <= 0 {
		writeErrorStatus(w, http.StatusBadRequest, "rate must be positive")
		return
	}
	s.engine.Clock().SetRate(req.Rate)
	writeJSON(w, http.StatusOK, s.clockStatus())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	start := s.engine.Clock().Now()
	s.engine.Reset(start)
	s.engine.Seed(r.Context())
	s.log.Info(r.Context(), "scenario reset via api")
	writeJSON(w, http.StatusOK, s.stateSnapshot())
}

type clockStatus struct {
	SimTime time.Time `json:"sim_time"`
	Paused  bool      `json:"paused"`
	Rate    float64   `json:"rate"`
}

func (s *Server) clockStatus() clockStatus {
	clock := s.engine.Clock()
	return clockStatus{SimTime: clock.Now(), Paused: clock.Paused(), Rate: clock.Rate()}
}

func (s *Server) stateSnapshot() stateView {
	clock := s.engine.Clock()
	return stateView{
		SimTime:   clock.Now(),
		Paused:    clock.Paused(),
		Rate:      clock.Rate(),
		Selection: s.engine.Selection(),
		Objects:   viewOfObjects(s.engine.Objects()),
		Ledger:    viewOfLedger(s.engine.Ledger()),
	}
}
