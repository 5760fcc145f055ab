package http

import (
	"errors"
	"net/http"

	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/KpG782/qr-registration/internal/roster"
	"github.com/gin-gonic/gin"
)

const (
	codeMethodNotAllowed        = "method_not_allowed"
	codeNotFound                = "not_found"
	codeInvalidRequestBody      = "invalid_request_body"
	codeMissingRequiredField    = "missing_required_field"
	codeInvalidID               = "invalid_id"
	codeEventNameRequired       = "event_name_required"
	codeCategoryNameRequired    = "category_name_required"
	codeEmailRequired           = "email_required"
	codeFullNameRequired        = "full_name_required"
	codeInvalidEmail            = "invalid_email"
	codeInvalidAttendanceStatus = "invalid_attendance_status"
	codeInvalidWinnerRank       = "invalid_winner_rank"
	codeInvalidDate             = "invalid_date"
	codeEventNotFound           = "event_not_found"
	codeCategoryNotFound        = "category_not_found"
	codeParticipantNotFound     = "participant_not_found"
	codeDuplicateEmail          = "duplicate_email"
	codeWinnerRankTaken         = "winner_rank_taken"
	codeAttendanceReversal      = "attendance_reversal"
	codeUnsupportedFile         = "unsupported_file"
	codeInvalidFile             = "invalid_file"
	codeNoValidRows             = "no_valid_rows"
	codeRateLimited             = "rate_limited"
	codeUnauthorized            = "unauthorized"
	codeForbidden               = "forbidden"
	codeInternalError           = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Error: msg,
		Code:  code,
	})
}

type errorMapping struct {
	target error
	status int
	code   string
}

var serviceErrors = []errorMapping{
	{domain.ErrInvalidID, http.StatusBadRequest, codeInvalidID},
	{domain.ErrEventNameRequired, http.StatusBadRequest, codeEventNameRequired},
	{domain.ErrCategoryNameRequired, http.StatusBadRequest, codeCategoryNameRequired},
	{domain.ErrEmailRequired, http.StatusBadRequest, codeEmailRequired},
	{domain.ErrFullNameRequired, http.StatusBadRequest, codeFullNameRequired},
	{domain.ErrInvalidEmail, http.StatusBadRequest, codeInvalidEmail},
	{domain.ErrInvalidAttendanceStatus, http.StatusBadRequest, codeInvalidAttendanceStatus},
	{domain.ErrInvalidWinnerRank, http.StatusBadRequest, codeInvalidWinnerRank},
	{domain.ErrInvalidDate, http.StatusBadRequest, codeInvalidDate},
	{domain.ErrEventNotFound, http.StatusNotFound, codeEventNotFound},
	{domain.ErrCategoryNotFound, http.StatusNotFound, codeCategoryNotFound},
	{domain.ErrParticipantNotFound, http.StatusNotFound, codeParticipantNotFound},
	{domain.ErrDuplicateEmail, http.StatusConflict, codeDuplicateEmail},
	{domain.ErrWinnerRankTaken, http.StatusConflict, codeWinnerRankTaken},
	{domain.ErrAttendanceReversal, http.StatusConflict, codeAttendanceReversal},
	{roster.ErrUnsupportedFormat, http.StatusBadRequest, codeUnsupportedFile},
}

// writeServiceError maps a service error to its status and code. Anything
// unrecognised is a persistence failure: it is recorded on the context for the
// request logger and answered with a bare 500.
func writeServiceError(c *gin.Context, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			writeError(c, m.status, m.code, m.target.Error())
			return
		}
	}
	_ = c.Error(err)
	writeError(c, http.StatusInternalServerError, codeInternalError, "internal error")
}
