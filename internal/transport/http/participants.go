package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/KpG782/qr-registration/internal/app"
	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/KpG782/qr-registration/internal/roster"
	"github.com/gin-gonic/gin"
)

const maxImportBytes = 5 << 20

// ParticipantService is the minimal interface needed for participant endpoints.
type ParticipantService interface {
	Create(ctx context.Context, in app.CreateParticipantInput) (domain.Participant, error)
	BulkCreate(ctx context.Context, in app.BulkCreateInput) (app.BulkCreateResult, error)
	Get(ctx context.Context, id string) (domain.Participant, error)
	List(ctx context.Context, categoryID string) ([]domain.Participant, error)
	FindByEmail(ctx context.Context, categoryID, email string) (*domain.Participant, error)
	Update(ctx context.Context, id string, in app.UpdateParticipantInput) (domain.Participant, error)
	CheckIn(ctx context.Context, id string) (domain.Participant, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type createParticipantRequest struct {
	CategoryID        string `json:"categoryId" binding:"required"`
	Email             string `json:"email" binding:"required"`
	FullName          string `json:"fullName" binding:"required"`
	SchoolInstitution string `json:"schoolInstitution"`
}

type bulkParticipant struct {
	Email             string `json:"email"`
	FullName          string `json:"fullName"`
	SchoolInstitution string `json:"schoolInstitution"`
}

type bulkCreateRequest struct {
	CategoryID   string            `json:"categoryId" binding:"required"`
	Participants []bulkParticipant `json:"participants" binding:"required"`
}

type bulkCreateResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

type importResponse struct {
	Parsed      int      `json:"parsed"`
	ParseErrors []string `json:"parseErrors"`
	Success     int      `json:"success"`
	Failed      int      `json:"failed"`
	Errors      []string `json:"errors"`
}

type importErrorResponse struct {
	errorResponse
	ParseErrors []string `json:"parseErrors"`
}

type updateParticipantRequest struct {
	Email             *string         `json:"email"`
	FullName          *string         `json:"fullName"`
	SchoolInstitution *string         `json:"schoolInstitution"`
	AttendanceStatus  *string         `json:"attendanceStatus"`
	WinnerRank        json.RawMessage `json:"winnerRank"`
}

// HandleListParticipants lists participants, filtered by the categoryId query parameter when given.
func HandleListParticipants(svc ParticipantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		participants, err := svc.List(c.Request.Context(), c.Query("categoryId"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, newParticipantResponses(participants))
	}
}

// HandleFindParticipant looks a participant up by the exact stored email.
func HandleFindParticipant(svc ParticipantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, email := c.Query("categoryId"), c.Query("email")
		if categoryID == "" || email == "" {
			writeError(c, http.StatusBadRequest, codeMissingRequiredField, "categoryId and email are required")
			return
		}
		p, err := svc.FindByEmail(c.Request.Context(), categoryID, email)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		if p == nil {
			writeServiceError(c, domain.ErrParticipantNotFound)
			return
		}
		c.JSON(http.StatusOK, newParticipantResponse(*p))
	}
}

// HandleCreateParticipant registers one participant.
func HandleCreateParticipant(svc ParticipantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createParticipantRequest
		if !bindJSON(c, &req) {
			return
		}

		p, err := svc.Create(c.Request.Context(), app.CreateParticipantInput{
			CategoryID:        req.CategoryID,
			Email:             req.Email,
			FullName:          req.FullName,
			SchoolInstitution: req.SchoolInstitution,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newParticipantResponse(p))
	}
}

// HandleBulkCreateParticipants validates every record up front and rejects the
// whole batch on the first malformed one. Storage-level failures are reported
// per record in the response instead.
func HandleBulkCreateParticipants(svc ParticipantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkCreateRequest
		if !bindJSON(c, &req) {
			return
		}

		records := make([]app.BulkRecord, 0, len(req.Participants))
		for _, p := range req.Participants {
			in := app.CreateParticipantInput{
				CategoryID: req.CategoryID,
				Email:      p.Email,
				FullName:   p.FullName,
			}
			if err := in.Validate(); err != nil {
				writeBulkValidationError(c, p, err)
				return
			}
			records = append(records, app.BulkRecord{
				Email:             p.Email,
				FullName:          p.FullName,
				SchoolInstitution: p.SchoolInstitution,
			})
		}

		result, err := svc.BulkCreate(c.Request.Context(), app.BulkCreateInput{
			CategoryID: req.CategoryID,
			Records:    records,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, bulkCreateResponse{
			Success: result.Success,
			Failed:  result.Failed,
			Errors:  result.Errors,
		})
	}
}

func writeBulkValidationError(c *gin.Context, p bulkParticipant, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailRequired), errors.Is(err, domain.ErrInvalidEmail):
		writeError(c, http.StatusBadRequest, codeInvalidEmail, fmt.Sprintf("invalid email format: %s", p.Email))
	case errors.Is(err, domain.ErrFullNameRequired):
		writeError(c, http.StatusBadRequest, codeFullNameRequired, "full name is required for all participants")
	default:
		writeServiceError(c, err)
	}
}

// HandleImportParticipants parses an uploaded CSV or XLSX roster and bulk
// creates its valid rows in the categoryId form field's category.
func HandleImportParticipants(svc ParticipantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

		categoryID := c.PostForm("categoryId")
		header, err := c.FormFile("file")
		if categoryID == "" || err != nil {
			writeError(c, http.StatusBadRequest, codeMissingRequiredField, "category id and file are required")
			return
		}

		file, err := header.Open()
		if err != nil {
			writeError(c, http.StatusBadRequest, codeInvalidFile, "could not read uploaded file")
			return
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			writeError(c, http.StatusBadRequest, codeInvalidFile, "could not read uploaded file")
			return
		}

		parsed, err := roster.Parse(header.Filename, data)
		if err != nil {
			if errors.Is(err, roster.ErrUnsupportedFormat) {
				writeServiceError(c, err)
				return
			}
			writeError(c, http.StatusBadRequest, codeInvalidFile, err.Error())
			return
		}
		parseErrors := parsed.Errors
		if parseErrors == nil {
			parseErrors = []string{}
		}
		if parsed.Empty() {
			c.AbortWithStatusJSON(http.StatusBadRequest, importErrorResponse{
				errorResponse: errorResponse{Error: "no valid participants found in file", Code: codeNoValidRows},
				ParseErrors:   parseErrors,
			})
			return
		}

		records := make([]app.BulkRecord, 0, len(parsed.Records))
		for _, rec := range parsed.Records {
			records = append(records, app.BulkRecord{
				Email:             rec.Email,
				FullName:          rec.FullName,
				SchoolInstitution: rec.SchoolInstitution,
			})
		}
		result, err := svc.BulkCreate(c.Request.Context(), app.BulkCreateInput{
			CategoryID: categoryID,
			Records:    records,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, importResponse{
			Parsed:      len(parsed.Records),
			ParseErrors: parseErrors,
			Success:     result.Success,
			Failed:      result.Failed,
			Errors:      result.Errors,
		})
	}
}

func HandleGetParticipant(svc ParticipantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, newParticipantResponse(p))
	}
}

// HandleUpdateParticipant applies a partial update. A null winnerRank clears the rank.
func HandleUpdateParticipant(svc ParticipantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateParticipantRequest
		if !bindJSON(c, &req) {
			return
		}

		in := app.UpdateParticipantInput{
			Email:             req.Email,
			FullName:          req.FullName,
			SchoolInstitution: req.SchoolInstitution,
		}
		if req.AttendanceStatus != nil {
			status := domain.AttendanceStatus(*req.AttendanceStatus)
			in.Status = &status
		}
		switch {
		case len(req.WinnerRank) == 0:
		case isNull(req.WinnerRank):
			in.ClearWinnerRank = true
		default:
			var rank int
			if err := json.Unmarshal(req.WinnerRank, &rank); err != nil {
				writeServiceError(c, domain.ErrInvalidWinnerRank)
				return
			}
			in.WinnerRank = &rank
		}

		p, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, newParticipantResponse(p))
	}
}

// HandleCheckInParticipant is the organizer's direct check-in. Repeating it
// moves checked_in_at to the latest call.
func HandleCheckInParticipant(svc ParticipantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.CheckIn(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, newParticipantResponse(p))
	}
}

func HandleDeleteParticipant(svc ParticipantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		existed, err := svc.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		if !existed {
			writeServiceError(c, domain.ErrParticipantNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
