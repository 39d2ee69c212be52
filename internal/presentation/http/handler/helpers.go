package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/pkg/apperror"
)

const dateLayout = "2006-01-02"

// GetActorID returns the current staff member, or nil for anonymous requests
func GetActorID(c *gin.Context) *string {
	id := c.GetString("user_id")
	if id == "" {
		return nil
	}
	return &id
}

// GetUserName extracts the staff member's display name from the Gin context
func GetUserName(c *gin.Context) string {
	return c.GetString("user_name")
}

// tableID parses the :id path parameter
func tableID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, apperror.NewBadRequestError("Invalid table ID")
	}
	return id, nil
}

// parseWindow builds a sale filter from from/to query values. A bare date
// for to includes the whole day.
func parseWindow(from, to string, loc *time.Location) (entity.SaleFilter, error) {
	var filter entity.SaleFilter
	var err error
	if filter.From, _, err = parseInstant(from, loc); err != nil {
		return filter, apperror.NewBadRequestError("Invalid from: " + err.Error())
	}
	var dateOnly bool
	if filter.To, dateOnly, err = parseInstant(to, loc); err != nil {
		return filter, apperror.NewBadRequestError("Invalid to: " + err.Error())
	}
	if dateOnly {
		filter.To = filter.To.AddDate(0, 0, 1)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.From.Before(filter.To) {
		return filter, apperror.NewBadRequestError("from must be before to")
	}
	return filter, nil
}

func parseInstant(raw string, loc *time.Location) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	return t, false, err
}
