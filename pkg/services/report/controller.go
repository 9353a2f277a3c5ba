package report

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/superwalkis/slack-ai/pkg/models/domain"
	"github.com/superwalkis/slack-ai/pkg/services/llm"
)

// Upcoming events are always read one week ahead, independent of the
// lookback window.
const calendarForwardDays = 7

type RevenueCollector interface {
	Collect(ctx context.Context, days int) (*domain.RevenueReport, error)
}

type CalendarCollector interface {
	Collect(ctx context.Context, back, forward int) (*domain.CalendarDigest, error)
}

type ChatCollector interface {
	Collect(ctx context.Context, days int) (*domain.ChatDigest, error)
}

type DocsCollector interface {
	Collect(ctx context.Context, days int) (*domain.DocsDigest, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, prompt string) string
}

type Deliverer interface {
	Send(ctx context.Context, report *domain.Report) bool
}

// Deps wires the pipeline. Any collector may be nil when its platform is
// not configured; the corresponding prompt section renders its placeholder.
type Deps struct {
	Revenue    RevenueCollector
	Calendar   CalendarCollector
	Chat       ChatCollector
	Docs       DocsCollector
	Summarizer Summarizer
	Deliverer  Deliverer
}

// Controller runs the fetch → format → summarize → deliver pipeline.
// Collectors execute sequentially; a failing collector costs its section,
// never the run.
type Controller struct {
	deps Deps
}

func NewController(deps Deps) *Controller {
	return &Controller{deps: deps}
}

func (c *Controller) Run(ctx context.Context, days int) (domain.RunSummary, error) {
	logger := zerolog.Ctx(ctx)
	started := time.Now()

	input := PromptInput{Days: days}
	var summary domain.RunSummary

	if c.deps.Revenue != nil {
		rev, err := c.deps.Revenue.Collect(ctx, days)
		if err != nil {
			logger.Error().Err(err).Msg("revenue collection failed")
		} else {
			input.Revenue = rev
		}
		if rev != nil {
			summary.RevenueDays = len(rev.Days)
		}
	}

	if c.deps.Calendar != nil {
		cal, err := c.deps.Calendar.Collect(ctx, days, calendarForwardDays)
		if err != nil {
			logger.Error().Err(err).Msg("calendar collection failed")
		} else {
			input.Calendar = cal
		}
		if cal != nil {
			summary.Events = len(cal.Today) + len(cal.Upcoming)
		}
	}

	if c.deps.Chat != nil {
		chat, err := c.deps.Chat.Collect(ctx, days)
		if err != nil {
			logger.Error().Err(err).Msg("chat collection failed")
		} else {
			input.Chat = chat
		}
		if chat != nil {
			summary.Messages = len(chat.Messages)
		}
	}

	if c.deps.Docs != nil {
		docs, err := c.deps.Docs.Collect(ctx, days)
		if err != nil {
			logger.Error().Err(err).Msg("docs collection failed")
		} else {
			input.Docs = docs
		}
		if docs != nil {
			summary.Pages = len(docs.Pages)
		}
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	prompt := BuildPrompt(input)

	body := llm.Fallback
	if c.deps.Summarizer != nil {
		body = c.deps.Summarizer.Summarize(ctx, prompt)
	}

	report := &domain.Report{
		Body:        body,
		Model:       llm.Model,
		Days:        days,
		GeneratedAt: time.Now(),
	}
	if c.deps.Deliverer != nil {
		summary.Delivered = c.deps.Deliverer.Send(ctx, report)
	} else {
		logger.Warn().Msg("no delivery target configured")
	}

	logger.Info().
		Int("days", days).
		Int("messages", summary.Messages).
		Int("pages", summary.Pages).
		Int("events", summary.Events).
		Dur("elapsed", time.Since(started)).
		Bool("delivered", summary.Delivered).
		Msg("report run finished")

	return summary, nil
}
