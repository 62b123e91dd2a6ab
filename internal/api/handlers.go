package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glefebvre/mediathek/internal/errors"
	"github.com/glefebvre/mediathek/internal/logger"
)

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func (s *Server) notFound(c *gin.Context) {
	s.writeError(c, errors.NotFoundError("route", c.Request.URL.Path))
}

func (s *Server) normalizeDescription(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	result := s.pipeline.Run(req.Description, req.Title, req.Topic)

	c.JSON(http.StatusOK, NormalizeResponse{
		Description: result.Text,
		Truncated:   result.Truncated(),
		Applied:     append([]string{}, result.Applied...),
	})
}

func (s *Server) createFilm(c *gin.Context) {
	var req FilmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	film, err := req.toFilm(s.pipeline)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.metrics.ObserveFilmBuilt()

	ctx := logger.ContextWithFilmID(c.Request.Context(), film.ID().String())
	s.log.WithFields(map[string]interface{}{
		"sender":    film.Sender().String(),
		"index_key": film.IndexKey(),
	}).DebugContext(ctx, "film built")

	c.JSON(http.StatusCreated, toFilmResponse(film))
}

func (s *Server) compareFilms(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	left, err := req.Left.toFilm(s.pipeline)
	if err != nil {
		s.writeError(c, errors.Wrap(err, errors.GetErrorCode(err), "left film"))
		return
	}
	right, err := req.Right.toFilm(s.pipeline)
	if err != nil {
		s.writeError(c, errors.Wrap(err, errors.GetErrorCode(err), "right film"))
		return
	}

	c.JSON(http.StatusOK, CompareResponse{
		Equal:     left.Equal(right),
		LeftHash:  formatHash(left.Hash()),
		RightHash: formatHash(right.Hash()),
	})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid request",
		Message: err.Error(),
	})
}

// writeError maps validation failures to 400, unknown resources to 404 and
// everything else to 500
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   string(errors.GetErrorCode(err)),
			Message: err.Error(),
		})
		return
	case errors.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   string(errors.GetErrorCode(err)),
			Message: err.Error(),
		})
		return
	}

	s.log.ErrorContext(c.Request.Context(), "request failed", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal server error",
		Message: "an unexpected error occurred",
	})
}
