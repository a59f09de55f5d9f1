package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"posttracker/internal/core/application/usecases/commands"
	"posttracker/internal/core/application/usecases/queries"
	"posttracker/internal/core/domain/model/post"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type createPostHandler interface {
	Handle(ctx context.Context, cmd commands.CreatePostCommand) (*post.Post, error)
}

type transitionPostHandler interface {
	Handle(ctx context.Context, cmd commands.TransitionPostCommand) (*post.Post, error)
}

type getPostHandler interface {
	Handle(ctx context.Context, query queries.GetPostQuery) (*post.Post, error)
}

type getOverduePostsHandler interface {
	Handle(ctx context.Context, query queries.GetOverduePostsQuery) ([]queries.GetOverduePostsQueryResponse, error)
}

// Server maps HTTP requests onto the post use cases.
type Server struct {
	// Command handlers
	createPostHandler     createPostHandler
	transitionPostHandler transitionPostHandler

	// Query handlers
	getPostHandler         getPostHandler
	getOverduePostsHandler getOverduePostsHandler

	clock  func() time.Time
	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createPostHandler createPostHandler,
	transitionPostHandler transitionPostHandler,
	getPostHandler getPostHandler,
	getOverduePostsHandler getOverduePostsHandler,
	clock func() time.Time,
	logger *slog.Logger,
) *Server {
	return &Server{
		createPostHandler:      createPostHandler,
		transitionPostHandler:  transitionPostHandler,
		getPostHandler:         getPostHandler,
		getOverduePostsHandler: getOverduePostsHandler,
		clock:                  clock,
		logger:                 logger.With("component", "http"),
	}
}

// RegisterRoutes mounts the API, the health check and the Prometheus
// endpoint on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/posts", s.CreatePost)
	api.GET("/posts/overdue", s.GetOverduePosts)
	api.GET("/posts/:trackingCode", s.GetPost)
	api.PUT("/posts/:id/status", s.TransitionPost)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// CreatePost handles POST /api/v1/posts.
func (s *Server) CreatePost(ctx echo.Context) error {
	var body NewPost
	if err := ctx.Bind(&body); err != nil {
		return s.fail(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewCreatePostCommand(
		body.Email,
		body.Weight, body.Height, body.Width, body.Length,
		body.Carrier,
		body.Address.PostalCode,
		body.Address.Number,
		body.Address.Complement,
	)
	if err != nil {
		return s.fail(ctx, http.StatusBadRequest, "Invalid post data: "+err.Error())
	}

	created, err := s.createPostHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.failWith(ctx, err, "Failed to create post")
	}

	return ctx.JSON(http.StatusCreated, toPost(created))
}

// TransitionPost handles PUT /api/v1/posts/:id/status.
func (s *Server) TransitionPost(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return s.fail(ctx, http.StatusBadRequest, "Invalid post id")
	}

	var body StatusChange
	if err = ctx.Bind(&body); err != nil {
		return s.fail(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewTransitionPostCommand(id, body.Status)
	if err != nil {
		return s.fail(ctx, http.StatusBadRequest, "Invalid status change: "+err.Error())
	}

	updated, err := s.transitionPostHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.failWith(ctx, err, "Failed to update post status")
	}

	return ctx.JSON(http.StatusOK, toPost(updated))
}

// GetPost handles GET /api/v1/posts/:trackingCode.
func (s *Server) GetPost(ctx echo.Context) error {
	query, err := queries.NewGetPostQuery(ctx.Param("trackingCode"))
	if err != nil {
		return s.fail(ctx, http.StatusBadRequest, "Invalid tracking code")
	}

	found, err := s.getPostHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.failWith(ctx, err, "Failed to retrieve post")
	}

	return ctx.JSON(http.StatusOK, toPost(found))
}

// GetOverduePosts handles GET /api/v1/posts/overdue.
func (s *Server) GetOverduePosts(ctx echo.Context) error {
	query, err := queries.NewGetOverduePostsQuery(s.clock())
	if err != nil {
		return s.failWith(ctx, err, "Failed to retrieve overdue posts")
	}

	overdue, err := s.getOverduePostsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.failWith(ctx, err, "Failed to retrieve overdue posts")
	}

	response := make([]OverduePost, len(overdue))
	for i, o := range overdue {
		response[i] = toOverduePost(o)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) fail(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}

// failWith maps err onto a status code. Client errors carry the error text;
// server errors are logged and answered with the generic message only.
func (s *Server) failWith(ctx echo.Context, err error, message string) error {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), message,
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
		return s.fail(ctx, code, message)
	}
	return s.fail(ctx, code, message+": "+err.Error())
}
