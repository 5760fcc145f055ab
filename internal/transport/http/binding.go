package http

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	binding.EnableDecoderDisallowUnknownFields = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// jsonFieldName reports request fields by their wire name in validation errors.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// requiredFieldErrors maps request fields that have a dedicated error code.
var requiredFieldErrors = map[string]error{
	"createEventRequest.Name":    domain.ErrEventNameRequired,
	"createCategoryRequest.Name": domain.ErrCategoryNameRequired,
	"updateCategoryRequest.Name": domain.ErrCategoryNameRequired,
}

// bindJSON binds a strict JSON body and answers 400 itself on failure.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(c, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if mapped, ok := requiredFieldErrors[fe.StructNamespace()]; ok {
			writeServiceError(c, mapped)
			return false
		}
		fields = append(fields, fe.Field())
	}
	writeError(c, http.StatusBadRequest, codeMissingRequiredField, "missing required fields: "+strings.Join(fields, ", "))
	return false
}
