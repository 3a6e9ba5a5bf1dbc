// Package web serves the single-page UI and the JSON API around the
// report pipeline.
package web

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vrozhkov/stockbrief/app/report"
	"github.com/vrozhkov/stockbrief/app/store"
	"github.com/vrozhkov/stockbrief/pkg/logx"
)

//go:embed index.html
var indexHTML []byte

// Analyzer runs the report pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, req report.Request) (store.Report, error)
}

// Server serves the web UI and the JSON API.
type Server struct {
	Logger   *slog.Logger
	Service  Analyzer
	Store    store.Interface
	AudioDir string
}

// Run starts the server on addr and shuts it down when ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.Logger.Warn("failed to shutdown server", slog.Any("err", err))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.accessLog())

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	r.POST("/api/analyze", s.analyzeCtrl)
	r.GET("/api/reports", s.listReportsCtrl)
	r.GET("/api/reports/:ticker", s.getReportCtrl)

	if s.AudioDir != "" {
		r.Static("/audio", s.AudioDir)
	}

	return r
}

type analyzeRequest struct {
	Ticker   string `json:"ticker" binding:"required"`
	Language string `json:"language"`
}

type reportResponse struct {
	store.Report
	AudioURL string `json:"audio_url,omitempty"`
}

func (s *Server) analyzeCtrl(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := s.Service.Analyze(c.Request.Context(), report.Request{
		Ticker:   req.Ticker,
		Language: req.Language,
	})
	switch {
	case errors.Is(err, report.ErrInvalidTicker):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, report.ErrNoArticles):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.Logger.ErrorContext(c.Request.Context(), "analyze failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, toResponse(rep))
}

func (s *Server) listReportsCtrl(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	reps, err := s.Store.List(c.Request.Context(), store.ListRequest{Limit: limit})
	if err != nil {
		s.Logger.ErrorContext(c.Request.Context(), "list reports failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}

	resp := make([]reportResponse, len(reps))
	for i, rep := range reps {
		resp[i] = toResponse(rep)
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) getReportCtrl(c *gin.Context) {
	rep, err := s.Store.Get(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no report for ticker"})
			return
		}
		s.Logger.ErrorContext(c.Request.Context(), "get report failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get report"})
		return
	}

	c.JSON(http.StatusOK, toResponse(rep))
}

func toResponse(rep store.Report) reportResponse {
	resp := reportResponse{Report: rep}
	if rep.AudioPath != "" {
		resp.AudioURL = "/audio/" + filepath.Base(rep.AudioPath)
	}
	return resp
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Request = c.Request.WithContext(logx.ContextWithRequestID(c.Request.Context(), id))
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.InfoContext(c.Request.Context(), "request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Any("elapsed", time.Since(start)),
		)
	}
}
