package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/domain/models"
)

// writeError maps domain and binding errors to an HTTP response.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		bindErrs   validator.ValidationErrors
		validation *models.ValidationError
		notFound   *models.NotFoundError
		stock      *models.InsufficientStockError
	)

	switch {
	case errors.As(err, &bindErrs):
		fields := make(map[string]string, len(bindErrs))
		for _, fe := range bindErrs {
			fields[fe.Field()] = describeFieldError(fe)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
	case errors.As(err, &validation):
		body := gin.H{"error": validation.Error()}
		if validation.Field != "" {
			body["fields"] = map[string]string{validation.Field: validation.Message}
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, gin.H{
			"error":     stock.Error(),
			"shop":      stock.Shop,
			"stockType": stock.StockType,
			"requested": stock.Requested,
			"available": stock.Available,
		})
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// badRequest reports a body or query that could not be decoded at all.
func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	var bindErrs validator.ValidationErrors
	if errors.As(err, &bindErrs) {
		writeError(c, logger, err)
		return
	}
	logger.Warn("invalid request", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "shop":
		return "must be one of Shop 1 to Shop 10"
	case "stocktype":
		return "must be DANGOTE or ASHAKA"
	case "datestr":
		return "must be a YYYY-MM-DD date"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
