package http_movie

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/matchmovie/internal/delivery/http/common"
	"github.com/humanbelnik/matchmovie/internal/model"
	usecase_movie "github.com/humanbelnik/matchmovie/internal/usecase/movie"
)

type Catalog interface {
	Candidates(ctx context.Context, categories []string, limit int) ([]model.Movie, error)
	Categories(ctx context.Context) ([]string, error)
}

type Controller struct {
	uc     Catalog
	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(uc Catalog, opts ...ControllerOption) *Controller {
	c := &Controller{
		uc:     uc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	movies := router.Group("/movies")
	{
		movies.GET("", c.candidates)
		movies.GET("/categories", c.categories)
	}
}

type MoviesResponseDTO struct {
	Movies []model.Movie `json:"movies"`
}

type CategoriesResponseDTO struct {
	Categories []string `json:"categories"`
}

func (c *Controller) candidates(ctx *gin.Context) {
	var categories []string
	if raw := ctx.Query("categories"); raw != "" {
		categories = strings.Split(raw, ",")
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "limit must be a number"})
			return
		}
		limit = parsed
	}

	movies, err := c.uc.Candidates(ctx.Request.Context(), categories, limit)
	if err != nil {
		if errors.Is(err, usecase_movie.ErrInvalidInput) {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: err.Error()})
			return
		}
		c.logger.Error("failed to load movies", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, MoviesResponseDTO{Movies: movies})
}

func (c *Controller) categories(ctx *gin.Context) {
	categories, err := c.uc.Categories(ctx.Request.Context())
	if err != nil {
		c.logger.Error("failed to load categories", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, CategoriesResponseDTO{Categories: categories})
}
