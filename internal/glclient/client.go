// Package glclient talks to the external Ledger Submission Service.
// The service is a collaborator, not part of this core: it accepts a
// balanced transaction and returns a posted acknowledgment or a
// structured error.
package glclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	ledgerdomain "github.com/stayware/foliopost/internal/ledger/domain"
	"go.uber.org/zap"
)

// Ack is the posted-transaction acknowledgment.
type Ack struct {
	DocNo    string `json:"doc_no"`
	PostedID int64  `json:"posted_id"`
	Status   string `json:"status"`
}

// Submitter is what the posting and transfer services depend on.
type Submitter interface {
	Submit(ctx context.Context, tran *ledgerdomain.Transaction) (Ack, error)
}

// RemoteError is a structured rejection from the submission service.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("ledger submission rejected (%d): %s", e.StatusCode, e.Message)
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		log:    log.Named("glclient"),
	}
}

type wireLine struct {
	AccountID   int64  `json:"accountId"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Amount      string `json:"amount"`
	Memo        string `json:"memo"`
	ReferenceID int64  `json:"referenceId"`
}

type wireTransaction struct {
	DocNo        string     `json:"docNo"`
	TranDate     string     `json:"tranDate"`
	CurrencyCode string     `json:"currencyCode"`
	TranValue    string     `json:"tranValue"`
	Remarks      string     `json:"remarks"`
	Lines        []wireLine `json:"lines"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Submit posts one transaction. The balance invariant is re-checked
// before anything leaves the process.
func (c *Client) Submit(ctx context.Context, tran *ledgerdomain.Transaction) (Ack, error) {
	if tran == nil {
		return Ack{}, ledgerdomain.ErrEmptyTransaction
	}
	if err := ledgerdomain.ValidateBalanced(tran.Lines); err != nil {
		return Ack{}, err
	}

	payload := wireTransaction{
		DocNo:        tran.DocNo,
		TranDate:     tran.TranDate.UTC().Format(time.RFC3339),
		CurrencyCode: tran.CurrencyCode,
		TranValue:    tran.TranValue.StringFixed(2),
		Remarks:      tran.Remarks,
		Lines:        make([]wireLine, 0, len(tran.Lines)),
	}
	for _, line := range tran.Lines {
		payload.Lines = append(payload.Lines, wireLine{
			AccountID:   line.AccountID,
			Debit:       line.Debit.StringFixed(2),
			Credit:      line.Credit.StringFixed(2),
			Amount:      line.Amount.StringFixed(2),
			Memo:        line.Memo,
			ReferenceID: line.ReferenceID,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Ack{}, err
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/transactions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Ack{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Ack{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var remote errorResponse
		message := "ledger_submission_failed"
		if err := json.NewDecoder(resp.Body).Decode(&remote); err == nil {
			if m := strings.TrimSpace(remote.Error.Message); m != "" {
				message = m
			}
		}
		c.log.Warn("submission rejected",
			zap.String("doc_no", tran.DocNo),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message),
		)
		return Ack{}, &RemoteError{StatusCode: resp.StatusCode, Message: message}
	}

	var ack Ack
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return Ack{}, err
	}
	if ack.DocNo == "" {
		ack.DocNo = tran.DocNo
	}
	return ack, nil
}
