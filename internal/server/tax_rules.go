package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	taxruledomain "github.com/stayware/foliopost/internal/taxrule/domain"
)

type createTaxRuleRequest struct {
	Name        string   `json:"name"`
	CalcBasedOn string   `json:"calc_based_on"`
	Percentage  *float64 `json:"percentage"`
	AccountID   *int64   `json:"account_id"`
	IsEnabled   *bool    `json:"is_enabled"`
}

type updateTaxRuleRequest struct {
	Name        *string  `json:"name,omitempty"`
	CalcBasedOn *string  `json:"calc_based_on,omitempty"`
	Percentage  *float64 `json:"percentage,omitempty"`
	AccountID   *int64   `json:"account_id,omitempty"`
	IsEnabled   *bool    `json:"is_enabled,omitempty"`
}

func (s *Server) ListTaxRules(c *gin.Context) {
	outletID, err := pathInt64(c, "outlet_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	hotelID, err := s.hotelIDFor(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.taxRuleSvc.List(c.Request.Context(), hotelID, outletID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) CreateTaxRule(c *gin.Context) {
	outletID, err := pathInt64(c, "outlet_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	hotelID, err := s.hotelIDFor(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req createTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	row, err := s.taxRuleSvc.Create(c.Request.Context(), taxruledomain.CreateRequest{
		HotelID:     hotelID,
		OutletID:    outletID,
		Name:        strings.TrimSpace(req.Name),
		CalcBasedOn: strings.TrimSpace(req.CalcBasedOn),
		Percentage:  req.Percentage,
		AccountID:   req.AccountID,
		IsEnabled:   req.IsEnabled,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": row})
}

func (s *Server) UpdateTaxRule(c *gin.Context) {
	if _, err := pathInt64(c, "outlet_id"); err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := pathSnowflake(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	row, err := s.taxRuleSvc.Update(c.Request.Context(), id, taxruledomain.UpdateRequest{
		Name:        trimStringPtr(req.Name),
		CalcBasedOn: trimStringPtr(req.CalcBasedOn),
		Percentage:  req.Percentage,
		AccountID:   req.AccountID,
		IsEnabled:   req.IsEnabled,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": row})
}

func (s *Server) DeleteTaxRule(c *gin.Context) {
	if _, err := pathInt64(c, "outlet_id"); err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := pathSnowflake(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.taxRuleSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func trimStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}
