package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stayware/foliopost/internal/config"
	ledgerdomain "github.com/stayware/foliopost/internal/ledger/domain"
	"gorm.io/datatypes"
)

// TargetRef identifies one folio or room the group charge applies to.
type TargetRef struct {
	ReferenceID int64  `json:"reference_id"`
	Label       string `json:"label"`
}

// TargetError is one failed target inside a group run.
type TargetError struct {
	ReferenceID int64  `json:"reference_id"`
	Label       string `json:"label,omitempty"`
	Message     string `json:"message"`
}

// TargetAck pairs a target with its posted acknowledgment.
type TargetAck struct {
	ReferenceID int64  `json:"reference_id"`
	DocNo       string `json:"doc_no"`
	PostedID    int64  `json:"posted_id"`
}

// GroupResult aggregates per-target outcomes. Partial success is an
// expected outcome of a group run, never an error return.
type GroupResult struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Acks      []TargetAck   `json:"acks,omitempty"`
	Errors    []TargetError `json:"errors,omitempty"`
}

// FirstError returns the message of the first failed target, or the
// empty string when every target succeeded.
func (r GroupResult) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// PostingRun is the audit row persisted after each group run.
type PostingRun struct {
	ID           snowflake.ID   `gorm:"primaryKey;column:id"`
	TemplateDoc  string         `gorm:"column:template_doc"`
	CurrencyCode string         `gorm:"column:currency_code"`
	TranValue    string         `gorm:"column:tran_value"`
	Targets      int            `gorm:"column:targets"`
	Succeeded    int            `gorm:"column:succeeded"`
	Failed       int            `gorm:"column:failed"`
	Errors       datatypes.JSON `gorm:"column:errors"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
}

func (PostingRun) TableName() string {
	return "posting_runs"
}

// PolicySource yields the posting policy snapshot a run operates
// under. The production source hot-reloads from disk.
type PolicySource interface {
	Current() config.PostingPolicy
}

type Repository interface {
	SaveRun(ctx context.Context, run *PostingRun) error
	ListRuns(ctx context.Context, limit int) ([]PostingRun, error)
}

type Service interface {
	GroupPost(ctx context.Context, template *ledgerdomain.Transaction, targets []TargetRef) (GroupResult, error)
}
