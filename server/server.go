// Package server exposes the HTTP API: starting runs, querying their status,
// streaming their events over SSE and listing the persona catalog.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/probelab/validationsim/core"
	"github.com/probelab/validationsim/logging"
	"github.com/probelab/validationsim/persona"
	"github.com/probelab/validationsim/runner"
)

const (
	// defaultMaxInterviewMessages applies when a start request omits the
	// interview depth limit.
	defaultMaxInterviewMessages = 8
	// minInterviewMessages and maxInterviewMessages bound the request value.
	minInterviewMessages = 2
	maxInterviewMessages = 40

	// queuePollInterval is how long one SSE drain waits before rechecking the
	// run status.
	queuePollInterval = time.Second
)

// Options configures a Server.
type Options struct {
	Logger logging.Logger
	// Catalog backs persona id lookups and GET /api/personas. Optional.
	Catalog *persona.Catalog
	// CORSAllowOrigins lists allowed origins. Empty means allow all.
	CORSAllowOrigins []string
}

// Server wires the HTTP routes onto a runner.
type Server struct {
	runner  *runner.Runner
	catalog *persona.Catalog
	logger  logging.Logger
	engine  *gin.Engine
}

// New constructs the server and registers all routes.
func New(r *runner.Runner, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), corsMiddleware(opts.CORSAllowOrigins))

	s := &Server{runner: r, catalog: opts.Catalog, logger: opts.Logger, engine: engine}

	engine.GET("/health", s.health)
	api := engine.Group("/api")
	api.POST("/runs", s.startRun)
	api.GET("/runs/:id", s.getRun)
	api.GET("/runs/:id/events", s.streamEvents)
	api.GET("/personas", s.listPersonas)
	return s
}

// Handler returns the http.Handler for serving or testing.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails.
func (s *Server) Run(addr string) error { return s.engine.Run(addr) }

func corsMiddleware(allowOrigins []string) gin.HandlerFunc {
	allowed := map[string]bool{}
	for _, o := range allowOrigins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if len(allowed) == 0 || allowed[origin] {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Content-Type, Last-Event-ID")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

type startRunRequest struct {
	Idea                 string   `json:"idea"`
	UserInput            string   `json:"user_input"`
	ItemTitles           []string `json:"item_titles"`
	PersonaID            string   `json:"persona_id"`
	CustomerPersona      string   `json:"customer_persona"`
	StakeholderProfile   string   `json:"stakeholder_profile"`
	MaxInterviewMessages int      `json:"max_interview_messages"`
}

type startRunResponse struct {
	RunID      string `json:"run_id"`
	Status     string `json:"status"`
	EventsURL  string `json:"events_url"`
	DetailsURL string `json:"details_url"`
}

type runStatusResponse struct {
	RunID       string     `json:"run_id"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
	FinalAnswer string     `json:"final_answer,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) startRun(c *gin.Context) {
	var req startRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	userInput := strings.TrimSpace(req.Idea)
	if userInput == "" {
		userInput = strings.TrimSpace(req.UserInput)
	}
	if userInput == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide a non-empty idea or user_input"})
		return
	}

	profile, err := s.catalog.ResolveProfile(req.CustomerPersona, req.StakeholderProfile, req.PersonaID)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, persona.ErrPersonaNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	maxMessages := req.MaxInterviewMessages
	if maxMessages == 0 {
		maxMessages = defaultMaxInterviewMessages
	}
	if maxMessages < minInterviewMessages || maxMessages > maxInterviewMessages {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(
			"max_interview_messages must be between %d and %d", minInterviewMessages, maxInterviewMessages)})
		return
	}

	var items []core.ItemDraft
	for _, title := range req.ItemTitles {
		items = append(items, core.ItemDraft{Title: title})
	}

	rt, err := s.runner.Start(runner.StartInput{
		UserInput:            userInput,
		StakeholderProfile:   profile,
		MaxInterviewMessages: maxMessages,
		Items:                items,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, runner.ErrTooManyRuns) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, startRunResponse{
		RunID:      rt.ID(),
		Status:     string(rt.Status()),
		EventsURL:  fmt.Sprintf("/api/runs/%s/events", rt.ID()),
		DetailsURL: fmt.Sprintf("/api/runs/%s", rt.ID()),
	})
}

func (s *Server) getRun(c *gin.Context) {
	rt, err := s.runner.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	resp := runStatusResponse{
		RunID:       rt.ID(),
		Status:      string(rt.Status()),
		StartedAt:   rt.StartedAt(),
		FinalAnswer: rt.FinalAnswer(),
	}
	if t := rt.CompletedAt(); !t.IsZero() {
		resp.CompletedAt = &t
	}
	if err := rt.Err(); err != nil {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listPersonas(c *gin.Context) {
	var defs []persona.Definition
	if s.catalog != nil {
		defs = s.catalog.All()
	}
	if defs == nil {
		defs = []persona.Definition{}
	}
	c.JSON(http.StatusOK, gin.H{"personas": defs})
}

// streamEvents drains the run's queue into an SSE response. The stream opens
// with a synthetic connected event and closes once a terminal event has been
// delivered and the queue is empty, or when the client goes away.
func (s *Server) streamEvents(c *gin.Context) {
	rt, err := s.runner.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	w := c.Writer
	flusher, ok := w.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}
	setSSEHeaders(w)

	eventID := 0
	connected := core.NewEvent(rt.ID(), core.EventStreamConnected, core.StreamConnectedPayload{Status: string(rt.Status())})
	if err := writeSSEEvent(w, eventID, connected); err != nil {
		return
	}
	flusher.Flush()
	eventID++

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		e, ok := rt.Queue().Pop(queuePollInterval)
		if !ok {
			if rt.Terminal() && rt.Queue().Empty() {
				return
			}
			continue
		}

		if err := writeSSEEvent(w, eventID, e); err != nil {
			s.logger.Debug("sse client write failed", "run_id", rt.ID(), "error", err)
			return
		}
		flusher.Flush()
		eventID++

		if e.IsTerminalEvent() && rt.Queue().Empty() {
			return
		}
	}
}
