// Package httpapi exposes the dispatcher over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/tendant/simple-hashkit/internal/dispatch"
	"github.com/tendant/simple-hashkit/pkg/schema"
)

// OutcomeHeader carries the strict classification of a response whose body
// reports success even when the tool failed.
const OutcomeHeader = "X-Hashkit-Outcome"

// Dispatcher is the subset of *dispatch.Dispatcher the handlers use.
type Dispatcher interface {
	Process(ctx context.Context, in schema.ProcessRequest) dispatch.Response
	Wordlist(ctx context.Context, in schema.WordlistRequest) dispatch.Response
}

type Handler struct {
	d      Dispatcher
	logger *slog.Logger
}

func NewHandler(d Dispatcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{d: d, logger: logger}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/process", h.process)
		r.Post("/wordlist", h.wordlist)
	})
	return r
}

// NewServer wraps the routes in an http.Server. No write timeout is set
// because a request may wait behind a long-running crack.
func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (h *Handler) process(w http.ResponseWriter, r *http.Request) {
	var in schema.ProcessRequest
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		h.badPayload(w, r, err)
		return
	}
	h.respond(w, r, h.d.Process(r.Context(), in))
}

func (h *Handler) wordlist(w http.ResponseWriter, r *http.Request) {
	var in schema.WordlistRequest
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		h.badPayload(w, r, err)
		return
	}
	h.respond(w, r, h.d.Wordlist(r.Context(), in))
}

func (h *Handler) badPayload(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Info("invalid payload", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, schema.Envelope{Status: schema.StatusError, Message: "Invalid JSON payload."})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, resp dispatch.Response) {
	switch resp.Kind {
	case schema.ErrorKindValidation:
		render.Status(r, http.StatusBadRequest)
	case schema.ErrorKindInternal:
		render.Status(r, http.StatusInternalServerError)
	default:
		w.Header().Set(OutcomeHeader, outcomeLabel(resp.Kind))
	}
	if resp.JobID != "" {
		w.Header().Set("X-Hashkit-Job", resp.JobID)
	}
	render.JSON(w, r, resp.Envelope)
}

func outcomeLabel(kind schema.ErrorKind) string {
	if kind == schema.ErrorKindNone {
		return "success"
	}
	return string(kind)
}
