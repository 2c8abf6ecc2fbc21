package server

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func pathInt64(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, newValidationError(name, "invalid_"+name, "invalid "+name)
	}
	return value, nil
}

func pathSnowflake(c *gin.Context, name string) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.Param(name))
	value, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, newValidationError(name, "invalid_"+name, "invalid "+name)
	}
	return value, nil
}

// hotelIDFor resolves the hotel scope: explicit query parameter first,
// deployment default otherwise.
func (s *Server) hotelIDFor(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.Query("hotel_id"))
	if raw == "" {
		if s.cfg.DefaultHotelID > 0 {
			return s.cfg.DefaultHotelID, nil
		}
		return 0, newValidationError("hotel_id", "invalid_hotel_id", "hotel_id is required")
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, newValidationError("hotel_id", "invalid_hotel_id", "invalid hotel_id")
	}
	return value, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, newValidationError(field, "invalid_"+field, "invalid "+field)
	}
	return value, nil
}

func parseOptionalLimit(c *gin.Context, fallback int) int {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
