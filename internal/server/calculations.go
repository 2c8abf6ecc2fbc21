package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stayware/foliopost/internal/taxcalc"
)

type previewCalculationRequest struct {
	HotelID     int64  `json:"hotel_id"`
	OutletID    int64  `json:"outlet_id"`
	Base        string `json:"base"`
	ApplyExtras *bool  `json:"apply_extras"`
}

// PreviewCalculation runs the tax ladder for an outlet without
// building or submitting anything.
func (s *Server) PreviewCalculation(c *gin.Context) {
	var req previewCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	hotelID := req.HotelID
	if hotelID == 0 {
		hotelID = s.cfg.DefaultHotelID
	}
	if hotelID <= 0 {
		AbortWithError(c, newValidationError("hotel_id", "invalid_hotel_id", "hotel_id is required"))
		return
	}
	if req.OutletID <= 0 {
		AbortWithError(c, newValidationError("outlet_id", "invalid_outlet_id", "invalid outlet_id"))
		return
	}

	base, err := parseAmount("base", req.Base)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if base.IsNegative() {
		AbortWithError(c, newValidationError("base", "invalid_base", "base must not be negative"))
		return
	}

	applyExtras := true
	if req.ApplyExtras != nil {
		applyExtras = *req.ApplyExtras
	}

	rules, err := s.taxRuleSvc.RulesForOutlet(c.Request.Context(), hotelID, req.OutletID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result := taxcalc.Calculate(base, rules, applyExtras)
	c.JSON(http.StatusOK, gin.H{"data": result})
}
