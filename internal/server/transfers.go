package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	transferdomain "github.com/stayware/foliopost/internal/transfer/domain"
)

type createTransferRequest struct {
	SourceReferenceID int64  `json:"source_reference_id"`
	TargetReferenceID int64  `json:"target_reference_id"`
	Amount            string `json:"amount"`
	ClearingAccountID int64  `json:"clearing_account_id"`
	SourceAccountID   int64  `json:"source_account_id"`
	TargetAccountID   int64  `json:"target_account_id"`
	CurrencyCode      string `json:"currency_code"`
	Remarks           string `json:"remarks"`
}

// CreateTransfer moves an amount between two folios through the
// clearing account. A partial completion is reported as its own error
// type so callers can trigger reconciliation.
func (s *Server) CreateTransfer(c *gin.Context) {
	var req createTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	currency := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	result, err := s.transferSvc.Transfer(c.Request.Context(), transferdomain.Request{
		SourceReferenceID: req.SourceReferenceID,
		TargetReferenceID: req.TargetReferenceID,
		Amount:            amount,
		ClearingAccountID: req.ClearingAccountID,
		SourceAccountID:   req.SourceAccountID,
		TargetAccountID:   req.TargetAccountID,
		CurrencyCode:      currency,
		Remarks:           strings.TrimSpace(req.Remarks),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
