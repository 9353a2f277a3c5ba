package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superwalkis/slack-ai/pkg/models/domain"
	"github.com/superwalkis/slack-ai/pkg/services/llm"
)

type stubRevenue struct {
	report *domain.RevenueReport
	err    error
}

func (s *stubRevenue) Collect(context.Context, int) (*domain.RevenueReport, error) {
	return s.report, s.err
}

type stubChat struct {
	digest *domain.ChatDigest
	err    error
}

func (s *stubChat) Collect(context.Context, int) (*domain.ChatDigest, error) {
	return s.digest, s.err
}

type stubCalendar struct {
	digest  *domain.CalendarDigest
	back    int
	forward int
}

func (s *stubCalendar) Collect(_ context.Context, back, forward int) (*domain.CalendarDigest, error) {
	s.back = back
	s.forward = forward
	return s.digest, nil
}

type stubSummarizer struct {
	prompt string
	body   string
}

func (s *stubSummarizer) Summarize(_ context.Context, prompt string) string {
	s.prompt = prompt
	return s.body
}

type stubDeliverer struct {
	sent *domain.Report
	ok   bool
}

func (s *stubDeliverer) Send(_ context.Context, r *domain.Report) bool {
	s.sent = r
	return s.ok
}

func TestRunFailingCollectorStillDelivers(t *testing.T) {
	summarizer := &stubSummarizer{body: "요약"}
	deliverer := &stubDeliverer{ok: true}

	ctrl := NewController(Deps{
		Revenue: &stubRevenue{err: errors.New("sheets: 403")},
		Chat: &stubChat{digest: &domain.ChatDigest{
			Messages: []domain.ChatMessage{{Conversation: "general", Author: "jay", Text: "hi"}},
		}},
		Summarizer: summarizer,
		Deliverer:  deliverer,
	})

	summary, err := ctrl.Run(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, summary.Delivered)
	assert.Equal(t, 1, summary.Messages)
	assert.Equal(t, 0, summary.RevenueDays)
	require.NotNil(t, deliverer.sent)
	assert.Equal(t, "요약", deliverer.sent.Body)
	assert.Contains(t, summarizer.prompt, noRevenueData)
	assert.Contains(t, summarizer.prompt, "[general] jay: hi")
}

func TestRunNoSummarizerDeliversFallback(t *testing.T) {
	deliverer := &stubDeliverer{ok: true}
	ctrl := NewController(Deps{Deliverer: deliverer})

	summary, err := ctrl.Run(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, summary.Delivered)
	require.NotNil(t, deliverer.sent)
	assert.Equal(t, llm.Fallback, deliverer.sent.Body)
	assert.Equal(t, llm.Model, deliverer.sent.Model)
}

func TestRunCalendarWindowFixedForward(t *testing.T) {
	cal := &stubCalendar{digest: &domain.CalendarDigest{
		Today: []domain.CalendarEvent{{Title: "standup"}},
	}}
	ctrl := NewController(Deps{Calendar: cal})

	summary, err := ctrl.Run(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 5, cal.back)
	assert.Equal(t, calendarForwardDays, cal.forward)
	assert.Equal(t, 1, summary.Events)
	assert.False(t, summary.Delivered)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	deliverer := &stubDeliverer{ok: true}
	ctrl := NewController(Deps{Deliverer: deliverer})

	_, err := ctrl.Run(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, deliverer.sent)
}

func TestRunDaysReflectedInPromptAndReport(t *testing.T) {
	summarizer := &stubSummarizer{body: "ok"}
	deliverer := &stubDeliverer{ok: true}
	ctrl := NewController(Deps{Summarizer: summarizer, Deliverer: deliverer})

	_, err := ctrl.Run(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, strings.Contains(summarizer.prompt, "최근 7일"))
	assert.Equal(t, 7, deliverer.sent.Days)
}
