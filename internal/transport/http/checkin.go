package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/KpG782/qr-registration/internal/app"
	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/gin-gonic/gin"
)

const checkInNotFoundMessage = "Participant not found. Please check your email or contact the organizer."

// CheckInService is the minimal interface needed for the public check-in page.
type CheckInService interface {
	Identify(ctx context.Context, in app.IdentifyInput) (app.IdentifyResult, error)
	Confirm(ctx context.Context, in app.ConfirmInput) (app.ConfirmResult, error)
}

type identifyRequest struct {
	CategoryID string `json:"categoryId" binding:"required"`
	Email      string `json:"email" binding:"required"`
}

type confirmRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

type checkInParticipant struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	FullName          string     `json:"full_name"`
	SchoolInstitution string     `json:"school_institution"`
	AttendanceStatus  string     `json:"attendance_status"`
	CheckedInAt       *time.Time `json:"checked_in_at"`
}

type checkInCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type identifyResponse struct {
	State       app.CheckInState   `json:"state"`
	Participant checkInParticipant `json:"participant"`
	Category    checkInCategory    `json:"category"`
}

type confirmResponse struct {
	Success     bool               `json:"success"`
	State       app.CheckInState   `json:"state"`
	Participant checkInParticipant `json:"participant"`
}

func newCheckInParticipant(p domain.Participant) checkInParticipant {
	return checkInParticipant{
		ID:                p.ID,
		Email:             p.Email,
		FullName:          p.FullName,
		SchoolInstitution: p.SchoolInstitution,
		AttendanceStatus:  string(p.Status),
		CheckedInAt:       p.CheckedInAt,
	}
}

// HandleIdentify is the first step of self check-in: find the participant by
// email within the scanned category. Nothing is written.
func HandleIdentify(svc CheckInService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req identifyRequest
		if !bindJSON(c, &req) {
			return
		}

		result, err := svc.Identify(c.Request.Context(), app.IdentifyInput{
			CategoryID: req.CategoryID,
			Email:      req.Email,
		})
		if err != nil {
			if errors.Is(err, domain.ErrParticipantNotFound) {
				writeError(c, http.StatusNotFound, codeParticipantNotFound, checkInNotFoundMessage)
				return
			}
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, identifyResponse{
			State:       result.State,
			Participant: newCheckInParticipant(result.Participant),
			Category: checkInCategory{
				ID:   result.Category.ID,
				Name: result.Category.Name,
			},
		})
	}
}

// HandleConfirm is the second step: mark the identified participant checked in.
// Confirming twice keeps the first check-in time.
func HandleConfirm(svc CheckInService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmRequest
		if !bindJSON(c, &req) {
			return
		}

		result, err := svc.Confirm(c.Request.Context(), app.ConfirmInput{ParticipantID: req.ParticipantID})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, confirmResponse{
			Success:     true,
			State:       result.State,
			Participant: newCheckInParticipant(result.Participant),
		})
	}
}
