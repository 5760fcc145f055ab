package http

import (
	"context"
	"net/http"

	"github.com/KpG782/qr-registration/internal/app"
	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/gin-gonic/gin"
)

// StatsService is the minimal interface needed for the dashboard counters.
type StatsService interface {
	CategoryStats(ctx context.Context, categoryID string) (domain.ParticipantStats, error)
	EventStats(ctx context.Context, eventID string) (app.EventStats, error)
	Totals(ctx context.Context) (domain.Totals, error)
}

type eventStatsResponse struct {
	Categories   int `json:"categories"`
	Participants int `json:"participants"`
}

type totalsResponse struct {
	Events       int `json:"events"`
	Categories   int `json:"categories"`
	Participants int `json:"participants"`
	CheckedIn    int `json:"checkedIn"`
}

// HandleCategoryStats reports total, checked-in and pending counts for one category.
func HandleCategoryStats(svc StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.CategoryStats(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, statsResponse{
			Total:     stats.Total,
			CheckedIn: stats.CheckedIn,
			Pending:   stats.Pending,
		})
	}
}

func HandleEventStats(svc StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.EventStats(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, eventStatsResponse{
			Categories:   stats.Categories,
			Participants: stats.Participants,
		})
	}
}

// HandleTotals reports the dashboard-wide counters.
func HandleTotals(svc StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		totals, err := svc.Totals(c.Request.Context())
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, totalsResponse{
			Events:       totals.Events,
			Categories:   totals.Categories,
			Participants: totals.Participants,
			CheckedIn:    totals.CheckedIn,
		})
	}
}
