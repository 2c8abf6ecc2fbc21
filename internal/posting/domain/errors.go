package domain

import "errors"

var (
	ErrNilTemplate   = errors.New("posting_template_required")
	ErrNoTargets     = errors.New("posting_targets_required")
	ErrInvalidTarget = errors.New("posting_target_invalid")
)
