package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	accountmapdomain "github.com/stayware/foliopost/internal/accountmap/domain"
)

type putAccountMapRequest struct {
	RevenueAccountID     int64 `json:"revenue_account_id"`
	GuestLedgerAccountID int64 `json:"guest_ledger_account_id"`
	ClearingAccountID    int64 `json:"clearing_account_id"`
	BalancingAccountID   int64 `json:"balancing_account_id"`
}

func (s *Server) GetAccountMap(c *gin.Context) {
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

	m, err := s.accountMapSvc.Get(c.Request.Context(), hotelID, outletID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": m})
}

func (s *Server) PutAccountMap(c *gin.Context) {
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

	var req putAccountMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	m, err := s.accountMapSvc.Upsert(c.Request.Context(), accountmapdomain.UpsertRequest{
		HotelID:              hotelID,
		OutletID:             outletID,
		RevenueAccountID:     req.RevenueAccountID,
		GuestLedgerAccountID: req.GuestLedgerAccountID,
		ClearingAccountID:    req.ClearingAccountID,
		BalancingAccountID:   req.BalancingAccountID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": m})
}
