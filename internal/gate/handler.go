package gate

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httperr "github.com/seology-ai/eventgate/internal/core/errors"
)

// RegisterRoutes registers the read-only ledger reporting routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/ledger/:source/activity", s.HandleActivity)
	r.GET("/v1/ledger/:source/stats", s.HandleStats)
	r.GET("/v1/events/:event_key", s.HandleGetEvent)
}

// HandleActivity handles GET /v1/ledger/:source/activity
// Query parameters: topic, limit
func (s *Service) HandleActivity(c *gin.Context) {
	var query struct {
		Topic string `form:"topic"`
		Limit int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	source := c.Param("source")
	records, err := s.GetActivity(c.Request.Context(), source, query.Topic, query.Limit)
	if err != nil {
		writeQueryError(c, err, "Failed to load ledger activity")
		return
	}

	c.JSON(http.StatusOK, ActivityResponse{
		Source: source,
		Topic:  query.Topic,
		Limit:  s.effectiveLimit(query.Limit),
		Events: records,
	})
}

// HandleStats handles GET /v1/ledger/:source/stats
// Query parameters: since (RFC 3339, optional)
func (s *Service) HandleStats(c *gin.Context) {
	var query struct {
		Since time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	stats, err := s.GetStats(c.Request.Context(), c.Param("source"), query.Since)
	if err != nil {
		writeQueryError(c, err, "Failed to load ledger stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HandleGetEvent handles GET /v1/events/:event_key
func (s *Service) HandleGetEvent(c *gin.Context) {
	rec, err := s.Find(c.Request.Context(), c.Param("event_key"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   "Event not found",
		})
		return
	}
	if err != nil {
		writeQueryError(c, err, "Failed to load event")
		return
	}

	c.JSON(http.StatusOK, rec)
}

func writeQueryError(c *gin.Context, err error, message string) {
	if errors.Is(err, ErrInvalidQuery) {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid ledger query",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   message,
		Details:   err.Error(),
	})
}
