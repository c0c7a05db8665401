package input

import (
	"context"
	"time"
)

// CheckRequest asks whether an element shows up on a page.
type CheckRequest struct {
	URL      string
	Selector string
}

type CheckResult struct {
	URL       string
	Title     string
	Displayed bool
	Text      string
	Elapsed   time.Duration
}

type CheckRunner interface {
	Run(ctx context.Context, req CheckRequest) (*CheckResult, error)
}
