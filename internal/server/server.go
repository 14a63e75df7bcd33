// Package server implements the HTTP API surface: it accepts raw user text,
// invokes the pipeline, and presents the result or a structured failure.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"

	"github.com/griefbot/memeforge/internal/archive"
	"github.com/griefbot/memeforge/internal/memes"
	"github.com/griefbot/memeforge/internal/pipeline"
	"github.com/griefbot/memeforge/pkg/api"
	"github.com/griefbot/memeforge/pkg/events"
	"github.com/griefbot/memeforge/pkg/log"
)

// Server drives the meme pipeline on behalf of HTTP callers
type Server struct {
	pipeline *pipeline.Pipeline
	hub      *events.Hub
	archive  *archive.BlobArchive
}

const serviceName = "memeforge"

// NewServer creates the HTTP API server. The archive may be nil, in which
// case run retrieval is disabled
func NewServer(
	p *pipeline.Pipeline, hub *events.Hub, arch *archive.BlobArchive,
) *Server {
	return &Server{
		pipeline: p,
		hub:      hub,
		archive:  arch,
	}
}

// SetupRoutes configures and returns the HTTP router with all API endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default()
		}),
	))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set(
			"Access-Control-Allow-Methods",
			"GET, POST, OPTIONS",
		)
		c.Writer.Header().Set(
			"Access-Control-Allow-Headers",
			"Content-Type, Authorization",
		)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	router.GET("/health", s.handleHealth)

	meme := router.Group("/api")
	{
		meme.POST("/meme", s.createMeme)
		meme.GET("/runs/:runID", s.getRun)
		meme.GET("/ws", s.handleWebSocket)
	}

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Service: serviceName,
		Status:  "ok",
	})
}

func (s *Server) createMeme(c *gin.Context) {
	var req api.MemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  "invalid request body",
			Status: http.StatusBadRequest,
		})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  "text must not be empty",
			Status: http.StatusBadRequest,
		})
		return
	}

	res := s.pipeline.Run(c.Request.Context(), api.Args{
		memes.FieldRawText: req.Text,
	})
	s.archiveResult(res)

	if !res.IsSuccess() {
		c.JSON(http.StatusUnprocessableEntity, api.RunFailureResponse{
			RunID:      res.RunID,
			FailedStep: res.FailedStep,
			Reason:     res.Reason,
			Detail:     res.Detail,
			Violations: res.Violations,
		})
		return
	}

	c.JSON(http.StatusOK, api.MemeResponse{
		RunID:    res.RunID,
		ImageURL: res.Output.GetString(memes.FieldImageURL, ""),
		PageURL:  res.Output.GetString(memes.FieldPageURL, ""),
	})
}

func (s *Server) getRun(c *gin.Context) {
	if s.archive == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  "run archive disabled",
			Status: http.StatusNotFound,
		})
		return
	}

	runID := api.RunID(c.Param("runID"))
	res, err := s.archive.Get(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{
				Error:  "run not found",
				Status: http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  "failed to read archive",
			Status: http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) archiveResult(res *api.Result) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Put(context.Background(), res); err != nil {
		slog.Error("Failed to archive run result",
			log.RunID(res.RunID),
			log.Error(err))
	}
}
