package domain

import "time"

// Report is the LLM completion for one run. It is forwarded to delivery and
// then discarded; nothing survives the invocation.
type Report struct {
	Body        string
	Model       string
	Days        int
	GeneratedAt time.Time
}

// RunSummary carries the per-source item counts back to the HTTP caller.
type RunSummary struct {
	Messages    int
	Pages       int
	Events      int
	RevenueDays int
	Delivered   bool
}
