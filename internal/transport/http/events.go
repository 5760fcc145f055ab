package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/KpG782/qr-registration/internal/app"
	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/gin-gonic/gin"
)

// EventService is the minimal interface needed for event endpoints.
type EventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.EventSummary, error)
	GetEvent(ctx context.Context, id string) (domain.EventSummary, error)
	UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type createEventRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
}

type updateEventRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Date        json.RawMessage `json:"date"`
}

// HandleListEvents lists events with their category and participant counts.
func HandleListEvents(svc EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := svc.ListEvents(c.Request.Context())
		if err != nil {
			writeServiceError(c, err)
			return
		}
		resp := make([]eventResponse, 0, len(events))
		for _, event := range events {
			resp = append(resp, newEventSummaryResponse(event))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleCreateEvent creates an event.
func HandleCreateEvent(svc EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createEventRequest
		if !bindJSON(c, &req) {
			return
		}

		in := app.CreateEventInput{Name: req.Name}
		if req.Description != nil {
			in.Description = *req.Description
		}
		if req.Date != nil && *req.Date != "" {
			date, err := parseDate(*req.Date)
			if err != nil {
				writeServiceError(c, err)
				return
			}
			in.Date = &date
		}

		event, err := svc.CreateEvent(c.Request.Context(), in)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newEventResponse(event))
	}
}

// HandleGetEvent returns one event with its counts.
func HandleGetEvent(svc EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := svc.GetEvent(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, newEventSummaryResponse(event))
	}
}

// HandleUpdateEvent applies a partial update. A null date clears it.
func HandleUpdateEvent(svc EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateEventRequest
		if !bindJSON(c, &req) {
			return
		}

		patch := domain.EventPatch{
			Name:        req.Name,
			Description: req.Description,
		}
		switch {
		case len(req.Date) == 0:
		case isNull(req.Date):
			patch.ClearDate = true
		default:
			var raw string
			if err := json.Unmarshal(req.Date, &raw); err != nil {
				writeServiceError(c, domain.ErrInvalidDate)
				return
			}
			if raw == "" {
				patch.ClearDate = true
				break
			}
			date, err := parseDate(raw)
			if err != nil {
				writeServiceError(c, err)
				return
			}
			patch.Date = &date
		}

		event, err := svc.UpdateEvent(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, newEventResponse(event))
	}
}

// HandleDeleteEvent removes an event together with its categories and participants.
func HandleDeleteEvent(svc EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
