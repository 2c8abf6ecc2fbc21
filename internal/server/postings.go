package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ledgerservice "github.com/stayware/foliopost/internal/ledger/service"
	postingdomain "github.com/stayware/foliopost/internal/posting/domain"
	"github.com/stayware/foliopost/internal/taxcalc"
)

type postingTarget struct {
	ReferenceID int64  `json:"reference_id"`
	Label       string `json:"label"`
}

type createPostingRequest struct {
	HotelID      int64           `json:"hotel_id"`
	OutletID     int64           `json:"outlet_id"`
	Base         string          `json:"base"`
	ApplyExtras  *bool           `json:"apply_extras"`
	Description  string          `json:"description"`
	CurrencyCode string          `json:"currency_code"`
	Remarks      string          `json:"remarks"`
	Targets      []postingTarget `json:"targets"`
}

// CreatePosting runs the full pipeline: ladder, line building, balance
// pass, then group submission to every target.
func (s *Server) CreatePosting(c *gin.Context) {
	var req createPostingRequest
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
	if len(req.Targets) == 0 {
		AbortWithError(c, newValidationError("targets", "targets_required", "at least one target is required"))
		return
	}

	base, err := parseAmount("base", req.Base)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !base.IsPositive() {
		AbortWithError(c, newValidationError("base", "invalid_base", "base must be positive"))
		return
	}

	applyExtras := true
	if req.ApplyExtras != nil {
		applyExtras = *req.ApplyExtras
	}
	currency := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Room revenue"
	}

	ctx := c.Request.Context()

	rules, err := s.taxRuleSvc.RulesForOutlet(ctx, hotelID, req.OutletID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	accounts, err := s.accountMapSvc.Get(ctx, hotelID, req.OutletID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result := taxcalc.Calculate(base, rules, applyExtras)
	charges := ledgerservice.ChargesFromCalculation(result, description, accounts.RevenueAccountID)

	now := s.clock.Now()
	lines, err := s.builder.BuildLines(charges, accounts.GuestLedgerAccountID, 0, now)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	balancingID := accounts.BalancingAccountID
	if balancingID <= 0 {
		balancingID = s.policy.Current().BalancingAccountID
	}
	lines = s.builder.Balance(lines, balancingID, 0, now)

	template, err := s.builder.Finalize(lines, currency, strings.TrimSpace(req.Remarks), now)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targets := make([]postingdomain.TargetRef, 0, len(req.Targets))
	for _, target := range req.Targets {
		targets = append(targets, postingdomain.TargetRef{
			ReferenceID: target.ReferenceID,
			Label:       strings.TrimSpace(target.Label),
		})
	}

	groupResult, err := s.postingSvc.GroupPost(ctx, template, targets)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"calculation": result,
		"template":    template,
		"result":      groupResult,
	}})
}

func (s *Server) ListPostingRuns(c *gin.Context) {
	runs, err := s.postingRepo.ListRuns(c.Request.Context(), parseOptionalLimit(c, 50))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": runs})
}
