package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"checkin-manager/internal/crontab"
	"checkin-manager/internal/domain"
	"checkin-manager/internal/logging"
	"checkin-manager/internal/usecase"
)

// Server is a primary adapter that exposes HTTP API + UI.
// It depends on the use case (primary port).
type Server struct {
	usecase usecase.CheckInUseCase
	server  *http.Server
	router  chi.Router
}

// NewServer creates the HTTP server bound to addr. allowOrigins feeds the
// CORS handler; empty allows any origin.
func NewServer(uc usecase.CheckInUseCase, addr string, allowOrigins []string) *Server {
	srv := &Server{usecase: uc}

	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(loggingMiddleware(logging.L().Named("http")))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", srv.handleRoot)
	r.Route("/api", func(r chi.Router) {
		r.Get("/settings", srv.handleSettings)
		r.Put("/enabled", srv.handleEnabled)

		r.Route("/entries", func(r chi.Router) {
			r.Post("/", srv.handleAddEntry)
			r.Delete("/", srv.handleRemoveEntries)
			r.Post("/sort", srv.handleSortEntries)
			r.Put("/{id}", srv.handleSetEntryTime)
			r.Delete("/{id}", srv.handleRemoveEntry)
			r.Post("/{id}/mark", srv.handleToggleMark)
		})

		r.Post("/shift", srv.handleShift)
		r.Post("/shift/undo", srv.handleUndoShift)

		r.Put("/weekdays", srv.handleSetWeekdays)
		r.Post("/weekdays/{day}/toggle", srv.handleToggleWeekday)

		r.Post("/pause", srv.handlePause)
		r.Delete("/pause", srv.handleResume)

		r.Get("/next", srv.handleNext)
		r.Get("/cron", srv.handleCron)
	})
	srv.router = r

	srv.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.respondSnapshot(w, http.StatusOK)
}

func (s *Server) handleEnabled(w http.ResponseWriter, r *http.Request) {
	var req enabledPayload
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := s.usecase.SetEnabled(*req.Enabled); err != nil {
		respondError(w, err)
		return
	}
	s.respondSnapshot(w, http.StatusOK)
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.usecase.AddEntry()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entryView{ID: e.ID.String(), Time: e.Time.String(), Marked: e.Marked})
}

func (s *Server) handleRemoveEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		n   int
		err error
	)
	switch {
	case parseBool(q.Get("all")):
		n, err = s.usecase.RemoveAll()
	case parseBool(q.Get("marked")):
		n, err = s.usecase.RemoveMarked()
	default:
		respondMessage(w, http.StatusBadRequest, "one of marked=true or all=true is required")
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	n, err := s.usecase.RemoveEntries([]string{chi.URLParam(r, "id")})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (s *Server) handleSortEntries(w http.ResponseWriter, r *http.Request) {
	if err := s.usecase.SortEntries(); err != nil {
		respondError(w, err)
		return
	}
	s.respondSnapshot(w, http.StatusOK)
}

func (s *Server) handleSetEntryTime(w http.ResponseWriter, r *http.Request) {
	var req entryTimePayload
	if !decodeAndValidate(w, r, &req) {
		return
	}
	t, err := domain.ParseWallClockTime(req.Time)
	if err != nil {
		respondError(w, err)
		return
	}
	e, err := s.usecase.SetEntryTime(chi.URLParam(r, "id"), t)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entryView{ID: e.ID.String(), Time: e.Time.String(), Marked: e.Marked})
}

func (s *Server) handleToggleMark(w http.ResponseWriter, r *http.Request) {
	if err := s.usecase.ToggleMarked([]string{chi.URLParam(r, "id")}); err != nil {
		respondError(w, err)
		return
	}
	s.respondSnapshot(w, http.StatusOK)
}

func (s *Server) handleShift(w http.ResponseWriter, r *http.Request) {
	var req shiftPayload
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := s.usecase.BulkShift(req.Hours, req.Minutes); err != nil {
		respondError(w, err)
		return
	}
	s.respondSnapshot(w, http.StatusOK)
}

func (s *Server) handleUndoShift(w http.ResponseWriter, r *http.Request) {
	if err := s.usecase.UndoBulkShift(); err != nil {
		respondError(w, err)
		return
	}
	s.respondSnapshot(w, http.StatusOK)
}

func (s *Server) handleSetWeekdays(w http.ResponseWriter, r *http.Request) {
	var req weekdaysPayload
	if !decodeAndValidate(w, r, &req) {
		return
	}
	days := make([]domain.Weekday, 0, len(req.Days))
	for _, name := range req.Days {
		d, err := domain.ParseWeekday(name)
		if err != nil {
			respondError(w, err)
			return
		}
		days = append(days, d)
	}
	if err := s.usecase.SetWeekdays(days); err != nil {
		respondError(w, err)
		return
	}
	s.respondSnapshot(w, http.StatusOK)
}

func (s *Server) handleToggleWeekday(w http.ResponseWriter, r *http.Request) {
	d, err := domain.ParseWeekday(chi.URLParam(r, "day"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := s.usecase.ToggleWeekday(d); err != nil {
		respondError(w, err)
		return
	}
	s.respondSnapshot(w, http.StatusOK)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	var req pausePayload
	if !decodeAndValidate(w, r, &req) {
		return
	}
	var err error
	switch req.Mode {
	case "hour":
		if req.Hour == nil {
			respondMessage(w, http.StatusBadRequest, "hour is required")
			return
		}
		_, err = s.usecase.PauseUntilHour(*req.Hour)
	case "days":
		if req.Days == nil {
			respondMessage(w, http.StatusBadRequest, "days is required")
			return
		}
		_, err = s.usecase.PauseForDays(*req.Days)
	case "until":
		if req.Until == nil {
			respondMessage(w, http.StatusBadRequest, "until is required")
			return
		}
		_, err = s.usecase.PauseUntil(*req.Until)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	s.respondSnapshot(w, http.StatusOK)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if err := s.usecase.Resume(); err != nil {
		respondError(w, err)
		return
	}
	s.respondSnapshot(w, http.StatusOK)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	c, ok, err := s.usecase.NextCheckIn()
	if err != nil {
		respondError(w, err)
		return
	}
	if !ok {
		respondJSON(w, http.StatusOK, map[string]any{"next": nil})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"next":    c.At,
		"entryId": c.Entry.ID.String(),
	})
}

func (s *Server) handleCron(w http.ResponseWriter, r *http.Request) {
	settings, err := s.usecase.Settings()
	if err != nil {
		respondError(w, err)
		return
	}
	out, err := crontab.Render(settings, r.URL.Query().Get("command"))
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (s *Server) respondSnapshot(w http.ResponseWriter, status int) {
	snap, err := s.usecase.GetSnapshot()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, status, snapshotToView(snap))
}

type settingsView struct {
	Enabled        bool        `json:"enabled"`
	Paused         bool        `json:"paused"`
	PauseActive    bool        `json:"pauseActive"`
	ResumeAt       *time.Time  `json:"resumeAt,omitempty"`
	PauseMessage   string      `json:"pauseMessage,omitempty"`
	Weekdays       []string    `json:"weekdays"`
	WeekdaySummary string      `json:"weekdaySummary"`
	RepeatMessage  string      `json:"repeatMessage"`
	Entries        []entryView `json:"entries"`
	OutOfOrder     bool        `json:"outOfOrder"`
	NextCheckIn    *time.Time  `json:"nextCheckIn"`
	UndoAvailable  bool        `json:"undoAvailable"`
}

type entryView struct {
	ID       string `json:"id"`
	Position int    `json:"position,omitempty"`
	Time     string `json:"time"`
	Marked   bool   `json:"marked"`
	TooClose bool   `json:"tooClose"`
}

func snapshotToView(snap domain.Snapshot) settingsView {
	v := settingsView{
		Enabled:        snap.Enabled,
		Paused:         snap.Pause.Enabled,
		PauseActive:    snap.PauseActive,
		Weekdays:       []string{},
		WeekdaySummary: snap.Weekdays.Summary(),
		RepeatMessage:  snap.Weekdays.RepeatMessage(),
		Entries:        []entryView{},
		OutOfOrder:     snap.OutOfOrder,
		UndoAvailable:  snap.UndoAvailable,
	}
	if !snap.Pause.ResumeAt.IsZero() {
		resume := snap.Pause.ResumeAt
		v.ResumeAt = &resume
	}
	if snap.PauseActive {
		v.PauseMessage = snap.Pause.Message()
	}
	for _, d := range snap.Weekdays.Selected() {
		v.Weekdays = append(v.Weekdays, d.String())
	}
	for i, e := range snap.Entries {
		v.Entries = append(v.Entries, entryView{
			ID:       e.ID.String(),
			Position: i + 1,
			Time:     e.Time.String(),
			Marked:   e.Marked,
			TooClose: snap.Conflicts[e.ID],
		})
	}
	if snap.HasNext {
		next := snap.NextCheckIn
		v.NextCheckIn = &next
	}
	return v
}

type enabledPayload struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type entryTimePayload struct {
	Time string `json:"time" validate:"required"`
}

type shiftPayload struct {
	Hours   int `json:"hours" validate:"gte=-23,lte=23"`
	Minutes int `json:"minutes" validate:"gte=-59,lte=59"`
}

type weekdaysPayload struct {
	Days []string `json:"days" validate:"required,min=1,dive,required"`
}

type pausePayload struct {
	Mode  string     `json:"mode" validate:"required,oneof=hour days until"`
	Hour  *int       `json:"hour" validate:"omitempty,gte=0,lte=23"`
	Days  *int       `json:"days" validate:"omitempty,gte=0,lte=39"`
	Until *time.Time `json:"until"`
}

// Global validator instance for reuse
var validate = validator.New()

func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	if err := validate.Struct(v); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCapacity),
		errors.Is(err, domain.ErrEmptySelection),
		errors.Is(err, domain.ErrNoUndo),
		errors.Is(err, crontab.ErrNothingToExport):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAmbiguousID),
		errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidWeekday):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Errorf("request failed: %v", err)
	}
	respondMessage(w, status, err.Error())
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Warnf("encode JSON: %v", err)
	}
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(indexHTML))
}

// parseBool is lenient about query flag spelling.
func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
