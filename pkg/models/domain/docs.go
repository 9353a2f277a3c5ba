package domain

import "time"

// DiscoveryMethod names the strategy that found a page. The same page can be
// reachable through several; only the first one to find it is recorded.
type DiscoveryMethod string

const (
	DiscoveredBySearch    DiscoveryMethod = "search"
	DiscoveredByTraversal DiscoveryMethod = "traversal"
	DiscoveredByDatabase  DiscoveryMethod = "database"
)

type DocumentComment struct {
	Author string
	Text   string
}

type DocumentPage struct {
	ID           string
	Title        string
	Body         string // plain text, truncated before prompt embedding
	LastEdited   time.Time
	LastEditedBy string
	Comments     []DocumentComment
	Depth        int // nesting level below the root it was found under
	Source       DiscoveryMethod
}

// DocsStats is returned by value with every collection, replacing the shared
// mutable counter object the first iterations of this job used.
type DocsStats struct {
	BySource        map[DiscoveryMethod]int
	BlocksRead      int
	BudgetExhausted bool
}

// DocsDigest is the documents collector's result for one run.
type DocsDigest struct {
	Pages []DocumentPage // sorted by LastEdited descending, capped
	Stats DocsStats
}
