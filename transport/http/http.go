package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/autom8ter/tabkit"
	"github.com/autom8ter/tabkit/debounce"
	"github.com/autom8ter/tabkit/errors"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Config configures the http handler
type Config struct {
	// Processor processes queries against the dataset's collections (default: tabkit.NewProcessor())
	Processor *tabkit.Processor
	// Logger logs requests (default: no-op)
	Logger tabkit.Logger
	// LiveDebounce is how long a live connection waits for the client to stop typing before processing its latest query
	LiveDebounce time.Duration
}

type server struct {
	dataset   *tabkit.Dataset
	processor *tabkit.Processor
	logger    tabkit.Logger
	wait      time.Duration
	upgrader  websocket.Upgrader
}

// Handler returns an http handler that serves the dataset's collections as a REST API
// GET "/collections"
// GET "/collections/{collection}/records"?search={}&search_fields={}&filter.{field}={}&range.{field}={min},{max}&sort={}&direction={}&page={}&page_size={}
// POST "/collections/{collection}/query" (json or yaml query in request body)
// POST "/collections/{collection}/export" (json or yaml query in request body - results are not paginated)
// GET "/collections/{collection}/live" (websocket - each message is a json query, each reply a page)
func Handler(dataset *tabkit.Dataset, cfg Config) http.Handler {
	s := &server{
		dataset:   dataset,
		processor: cfg.Processor,
		logger:    cfg.Logger,
		wait:      cfg.LiveDebounce,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if s.processor == nil {
		s.processor = tabkit.NewProcessor()
	}
	if s.logger == nil {
		s.logger = tabkit.NopLogger()
	}
	router := mux.NewRouter()
	router.HandleFunc("/collections", s.listCollections).Methods(http.MethodGet)
	router.HandleFunc("/collections/{collection}/records", s.records).Methods(http.MethodGet)
	router.HandleFunc("/collections/{collection}/query", s.query).Methods(http.MethodPost)
	router.HandleFunc("/collections/{collection}/export", s.export).Methods(http.MethodPost)
	router.HandleFunc("/collections/{collection}/live", s.live).Methods(http.MethodGet)
	for _, path := range []string{
		"GET /collections",
		"GET /collections/{collection}/records",
		"POST /collections/{collection}/query",
		"POST /collections/{collection}/export",
		"GET /collections/{collection}/live",
	} {
		s.logger.Debug(context.Background(), fmt.Sprintf("registered endpoint: %s", path), map[string]any{})
	}
	return router
}

func (s *server) listCollections(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.dataset.Names())
}

func (s *server) records(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, err := tabkit.QueryFromParams(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err, start)
		return
	}
	s.page(w, r, q, start)
}

func (s *server) query(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, err := s.decodeQuery(r)
	if err != nil {
		s.writeError(w, r, err, start)
		return
	}
	s.page(w, r, q, start)
}

func (s *server) page(w http.ResponseWriter, r *http.Request, q tabkit.Query, start time.Time) {
	vars := mux.Vars(r)
	collection, err := s.dataset.Get(vars["collection"])
	if err != nil {
		s.writeError(w, r, err, start)
		return
	}
	result, err := s.processor.Process(r.Context(), collection, q)
	if err != nil {
		s.writeError(w, r, err, start)
		return
	}
	s.logger.Debug(r.Context(), "query executed", map[string]any{
		"request.path": r.URL.Path,
		"collection":   vars["collection"],
		"total_items":  result.TotalItems,
		"duration":     float64(time.Since(start).Microseconds()) / float64(1000),
	})
	s.writeJSON(w, r, http.StatusOK, result)
}

func (s *server) export(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	vars := mux.Vars(r)
	q, err := s.decodeQuery(r)
	if err != nil {
		s.writeError(w, r, err, start)
		return
	}
	collection, err := s.dataset.Get(vars["collection"])
	if err != nil {
		s.writeError(w, r, err, start)
		return
	}
	results, err := s.processor.ProcessAll(r.Context(), collection, q)
	if err != nil {
		s.writeError(w, r, err, start)
		return
	}
	s.logger.Debug(r.Context(), "export executed", map[string]any{
		"request.path": r.URL.Path,
		"collection":   vars["collection"],
		"total_items":  len(results),
		"duration":     float64(time.Since(start).Microseconds()) / float64(1000),
	})
	s.writeJSON(w, r, http.StatusOK, results)
}

func (s *server) live(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collection, err := s.dataset.Get(vars["collection"])
	if err != nil {
		s.writeError(w, r, err, time.Now())
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(r.Context(), "failed to upgrade connection", err, map[string]any{
			"request.path": r.URL.Path,
		})
		return
	}
	defer conn.Close()
	var writeMu sync.Mutex
	write := func(value any) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(value); err != nil {
			s.logger.Error(r.Context(), "failed to write live message", err, map[string]any{
				"collection": vars["collection"],
			})
		}
	}
	debouncer := debounce.New(s.wait, func(q tabkit.Query) {
		result, err := s.processor.Process(r.Context(), collection, q)
		if err != nil {
			write(errors.Extract(err).RemoveError())
			return
		}
		write(result)
	})
	defer debouncer.Stop()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug(r.Context(), "live connection closed", map[string]any{
					"collection": vars["collection"],
					"error":      err.Error(),
				})
			}
			return
		}
		q, err := tabkit.ParseQuery(msg)
		if err != nil {
			write(errors.Extract(err).RemoveError())
			continue
		}
		debouncer.Call(q)
	}
}

func (s *server) decodeQuery(r *http.Request) (tabkit.Query, error) {
	bits, err := io.ReadAll(r.Body)
	if err != nil {
		return tabkit.Query{}, errors.Wrap(err, errors.Validation, "failed to read request body")
	}
	return tabkit.ParseQuery(bits)
}

func (s *server) writeJSON(w http.ResponseWriter, r *http.Request, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		s.logger.Error(r.Context(), "failed to encode response", err, map[string]any{
			"request.path": r.URL.Path,
		})
	}
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	e := errors.Extract(err)
	s.logger.Error(r.Context(), "request failed", err, map[string]any{
		"request.path": r.URL.Path,
		"request.vars": mux.Vars(r),
		"duration":     float64(time.Since(start).Microseconds()) / float64(1000),
	})
	s.writeJSON(w, r, e.HTTPStatus(), e.RemoveError())
}
