package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/KpG782/qr-registration/internal/app"
	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/KpG782/qr-registration/internal/qrcode"
	"github.com/gin-gonic/gin"
)

const (
	minQRSize = 128
	maxQRSize = 1024
)

// CategoryService is the minimal interface needed for category endpoints.
type CategoryService interface {
	CreateCategory(ctx context.Context, in app.CreateCategoryInput) (domain.Category, error)
	ListCategories(ctx context.Context, eventID string) ([]domain.CategorySummary, error)
	GetCategory(ctx context.Context, id string) (domain.CategorySummary, error)
	UpdateCategory(ctx context.Context, id, name string) (domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type createCategoryRequest struct {
	EventID string `json:"eventId" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

type updateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type qrURLResponse struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	FileName   string `json:"fileName"`
}

// HandleListCategories lists categories, filtered by the eventId query parameter when given.
func HandleListCategories(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.ListCategories(c.Request.Context(), c.Query("eventId"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		resp := make([]categoryResponse, 0, len(categories))
		for _, category := range categories {
			resp = append(resp, newCategorySummaryResponse(category))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleCreateCategory creates a category inside an existing event.
func HandleCreateCategory(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCategoryRequest
		if !bindJSON(c, &req) {
			return
		}

		category, err := svc.CreateCategory(c.Request.Context(), app.CreateCategoryInput{
			EventID: req.EventID,
			Name:    req.Name,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newCategoryResponse(category))
	}
}

func HandleGetCategory(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := svc.GetCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, newCategorySummaryResponse(category))
	}
}

// HandleUpdateCategory renames a category.
func HandleUpdateCategory(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCategoryRequest
		if !bindJSON(c, &req) {
			return
		}
		category, err := svc.UpdateCategory(c.Request.Context(), c.Param("id"), req.Name)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, newCategoryResponse(category))
	}
}

func HandleDeleteCategory(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// HandleCategoryQRURL returns the check-in link encoded in the category's QR code.
func HandleCategoryQRURL(svc CategoryService, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := svc.GetCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, qrURLResponse{
			CategoryID: category.ID,
			Name:       category.Name,
			URL:        qrcode.CheckInURL(baseURL, category.ID),
			FileName:   qrcode.FileName(category.Name),
		})
	}
}

// HandleCategoryQR renders the category's check-in link as a PNG. The optional
// size query parameter is clamped; download=1 asks the browser to save the file.
func HandleCategoryQR(svc CategoryService, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := svc.GetCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}

		size := qrcode.DefaultSize
		if raw := c.Query("size"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(c, http.StatusBadRequest, codeInvalidRequestBody, "size must be a number")
				return
			}
			size = min(max(n, minQRSize), maxQRSize)
		}

		png, err := qrcode.PNG(qrcode.CheckInURL(baseURL, category.ID), size)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		if c.Query("download") == "1" {
			c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", qrcode.FileName(category.Name)))
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}
