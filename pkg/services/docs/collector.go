package docs

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jomei/notionapi"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/superwalkis/slack-ai/pkg/models/domain"
)

const (
	maxPages          = 40
	blockDepthLimit   = 4
	pageDepthLimit    = 2
	searchConcurrency = 5
	bodyRuneLimit     = 1500
	databaseRowLimit  = 20

	// The hosting platform enforces a hard execution ceiling; remaining
	// discovery work is abandoned once this much wall clock has passed.
	// The check is cooperative, between units of work only: a single slow
	// request can still overrun it.
	defaultBudget = 60 * time.Second
)

// Collector discovers recently edited Notion pages through three overlapping
// strategies: workspace search by recency, recursive traversal under the
// configured root pages, and database row queries.
type Collector struct {
	api         NotionAPI
	rootPageIDs []string
	databaseIDs []string
	budget      time.Duration
	now         func() time.Time
}

func NewCollector(api NotionAPI, rootPageIDs, databaseIDs []string) *Collector {
	return &Collector{
		api:         api,
		rootPageIDs: rootPageIDs,
		databaseIDs: databaseIDs,
		budget:      defaultBudget,
		now:         time.Now,
	}
}

// runState accumulates one collection run. It is returned by value inside
// DocsDigest; nothing survives the run.
type runState struct {
	mu        sync.Mutex
	deadline  time.Time
	cutoff    time.Time
	now       func() time.Time
	seen      map[string]bool
	pages     []domain.DocumentPage
	databases []string
	dbSeen    map[string]bool
	stats     domain.DocsStats
}

func (s *runState) overBudget() bool {
	if s.now().Before(s.deadline) {
		return false
	}
	s.mu.Lock()
	s.stats.BudgetExhausted = true
	s.mu.Unlock()
	return true
}

// claim marks a page ID as collected; the first strategy to reach a page
// owns it.
func (s *runState) claim(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[id] {
		return false
	}
	s.seen[id] = true
	return true
}

func (s *runState) add(p domain.DocumentPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, p)
	s.stats.BySource[p.Source]++
}

func (s *runState) bumpBlocks(n int) {
	s.mu.Lock()
	s.stats.BlocksRead += n
	s.mu.Unlock()
}

func (s *runState) addDatabase(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dbSeen[id] {
		s.dbSeen[id] = true
		s.databases = append(s.databases, id)
	}
}

// Collect runs the three strategies in order and returns whatever was
// accumulated when they finish or the budget runs out, deduplicated by page
// ID, newest first, capped.
func (c *Collector) Collect(ctx context.Context, days int) (*domain.DocsDigest, error) {
	logger := zerolog.Ctx(ctx)
	start := c.now()

	st := &runState{
		deadline: start.Add(c.budget),
		cutoff:   start.AddDate(0, 0, -days),
		now:      c.now,
		seen:     make(map[string]bool),
		dbSeen:   make(map[string]bool),
		stats:    domain.DocsStats{BySource: make(map[domain.DiscoveryMethod]int)},
	}

	if err := c.collectSearch(ctx, st); err != nil {
		logger.Warn().Err(err).Msg("notion search skipped")
	}
	if !st.overBudget() {
		c.collectTraversal(ctx, st)
	}
	if !st.overBudget() {
		c.collectDatabases(ctx, st)
	}

	sort.Slice(st.pages, func(i, j int) bool {
		return st.pages[i].LastEdited.After(st.pages[j].LastEdited)
	})
	if len(st.pages) > maxPages {
		st.pages = st.pages[:maxPages]
	}

	logger.Info().
		Int("pages", len(st.pages)).
		Int("blocks", st.stats.BlocksRead).
		Bool("budget_exhausted", st.stats.BudgetExhausted).
		Msg("notion pages collected")

	return &domain.DocsDigest{Pages: st.pages, Stats: st.stats}, nil
}

// collectSearch asks the workspace search for recently edited pages and
// reads their content with a small fixed concurrency.
func (c *Collector) collectSearch(ctx context.Context, st *runState) error {
	resp, err := c.api.Search(ctx, &notionapi.SearchRequest{
		Sort: &notionapi.SortObject{
			Direction: notionapi.SortOrderDESC,
			Timestamp: notionapi.TimestampLastEdited,
		},
		Filter:   notionapi.SearchFilter{Property: "object", Value: "page"},
		PageSize: 50,
	})
	if err != nil {
		return err
	}

	var candidates []*notionapi.Page
	for _, obj := range resp.Results {
		page, ok := obj.(*notionapi.Page)
		if !ok {
			continue
		}
		// Results are sorted by last edit, newest first.
		if page.LastEditedTime.Before(st.cutoff) {
			break
		}
		if !st.claim(string(page.ID)) {
			continue
		}
		candidates = append(candidates, page)
		if len(candidates) >= maxPages {
			break
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(searchConcurrency)
	for _, page := range candidates {
		if st.overBudget() {
			break
		}
		g.Go(func() error {
			body, _, read := c.readBlocks(gctx, string(page.ID), 0, st)
			st.bumpBlocks(read)
			st.add(c.finishPage(gctx, page, body, 0, domain.DiscoveredBySearch))
			return nil
		})
	}
	return g.Wait()
}

// collectTraversal walks child pages under each configured root, two levels
// deep at most.
func (c *Collector) collectTraversal(ctx context.Context, st *runState) {
	for _, rootID := range c.rootPageIDs {
		if st.overBudget() {
			return
		}
		c.walkPage(ctx, rootID, 0, st)
	}
}

func (c *Collector) walkPage(ctx context.Context, pageID string, depth int, st *runState) {
	if depth > pageDepthLimit || st.overBudget() {
		return
	}

	page, err := c.api.GetPage(ctx, notionapi.PageID(pageID))
	if err != nil {
		// Inaccessible pages never abort the walk.
		zerolog.Ctx(ctx).Debug().Err(err).Str("page", pageID).Msg("page skipped")
		return
	}

	body, children, read := c.readBlocks(ctx, pageID, 0, st)
	st.bumpBlocks(read)

	if !page.LastEditedTime.Before(st.cutoff) && st.claim(pageID) {
		st.add(c.finishPage(ctx, page, body, depth, domain.DiscoveredByTraversal))
	}

	for _, ref := range children {
		if st.overBudget() {
			return
		}
		switch ref.Kind {
		case childPage:
			c.walkPage(ctx, ref.ID, depth+1, st)
		case childDatabase:
			st.addDatabase(ref.ID)
		}
	}
}

// collectDatabases queries the configured databases plus any discovered
// during traversal for recently edited rows.
func (c *Collector) collectDatabases(ctx context.Context, st *runState) {
	ids := append(append([]string{}, c.databaseIDs...), st.databases...)
	for _, id := range ids {
		if st.overBudget() {
			return
		}
		resp, err := c.api.QueryDatabase(ctx, notionapi.DatabaseID(id), &notionapi.DatabaseQueryRequest{
			Sorts: []notionapi.SortObject{{
				Timestamp: notionapi.TimestampLastEdited,
				Direction: notionapi.SortOrderDESC,
			}},
			PageSize: databaseRowLimit,
		})
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("database", id).Msg("database skipped")
			continue
		}
		for i := range resp.Results {
			row := &resp.Results[i]
			if row.LastEditedTime.Before(st.cutoff) {
				break
			}
			if st.overBudget() {
				return
			}
			if !st.claim(string(row.ID)) {
				continue
			}
			body, _, read := c.readBlocks(ctx, string(row.ID), 0, st)
			st.bumpBlocks(read)
			st.add(c.finishPage(ctx, row, body, 0, domain.DiscoveredByDatabase))
		}
	}
}

// readBlocks reads a block's children recursively, depth-limited, returning
// the extracted text, any child pages/databases encountered, and the number
// of blocks read.
func (c *Collector) readBlocks(ctx context.Context, blockID string, depth int, st *runState) (string, []childRef, int) {
	var b strings.Builder
	var children []childRef
	read := 0

	cursor := notionapi.Cursor("")
	for {
		if st.overBudget() {
			break
		}
		pagination := &notionapi.Pagination{PageSize: 100}
		if cursor != "" {
			pagination.StartCursor = cursor
		}
		resp, err := c.api.GetBlockChildren(ctx, notionapi.BlockID(blockID), pagination)
		if err != nil {
			break
		}
		for _, block := range resp.Results {
			read++
			if ref, ok := childOf(block); ok {
				children = append(children, ref)
				continue
			}
			text, descend := blockText(block)
			if text != "" {
				b.WriteString(text)
				b.WriteString("\n")
			}
			if descend && depth+1 < blockDepthLimit {
				childText, childRefs, n := c.readBlocks(ctx, string(block.GetID()), depth+1, st)
				read += n
				children = append(children, childRefs...)
				b.WriteString(childText)
			}
		}
		if !resp.HasMore {
			break
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}

	return b.String(), children, read
}

func (c *Collector) finishPage(
	ctx context.Context,
	page *notionapi.Page,
	body string,
	depth int,
	src domain.DiscoveryMethod,
) domain.DocumentPage {
	return domain.DocumentPage{
		ID:           string(page.ID),
		Title:        pageTitle(page),
		Body:         truncateRunes(body, bodyRuneLimit),
		LastEdited:   page.LastEditedTime,
		LastEditedBy: page.LastEditedBy.Name,
		Comments:     c.readComments(ctx, string(page.ID)),
		Depth:        depth,
		Source:       src,
	}
}

func (c *Collector) readComments(ctx context.Context, pageID string) []domain.DocumentComment {
	resp, err := c.api.GetComments(ctx, notionapi.BlockID(pageID), &notionapi.Pagination{PageSize: 50})
	if err != nil {
		return nil
	}
	var out []domain.DocumentComment
	for _, cm := range resp.Results {
		out = append(out, domain.DocumentComment{
			Author: cm.CreatedBy.Name,
			Text:   richTextPlain(cm.RichText),
		})
	}
	return out
}

func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if tp, ok := prop.(*notionapi.TitleProperty); ok {
			if title := richTextPlain(tp.Title); title != "" {
				return title
			}
		}
	}
	return "(제목 없음)"
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "…"
}
