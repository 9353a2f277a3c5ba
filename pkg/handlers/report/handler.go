package report

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/superwalkis/slack-ai/pkg/adapters"
	"github.com/superwalkis/slack-ai/pkg/models/api"
	"github.com/superwalkis/slack-ai/pkg/models/domain"
)

const (
	defaultDays = 1
	maxDays     = 30
)

// Runner executes one report pipeline run.
type Runner interface {
	Run(ctx context.Context, days int) (domain.RunSummary, error)
}

type Handler struct {
	runner Runner
}

func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

// RunReport triggers a pipeline run. `days` comes from the query string,
// clamped to [1,30]; schedulers call it bare for the daily report and with
// ?days=7 for the first comprehensive one.
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	days := clampDays(r.URL.Query().Get("days"))

	summary, err := h.runner.Run(ctx, days)
	if err != nil {
		logger.Error().Err(err).Msg("report run failed")
		writeJSON(w, http.StatusInternalServerError, adapters.MapRunErrorToResponse(err))
		return
	}

	writeJSON(w, http.StatusOK, adapters.MapRunSummaryToResponse(summary))
}

// Status describes the service and its routes.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.StatusResponse{
		Status:      "✅ Running",
		Name:        "CEO Daily Report Bot",
		Description: "Slack/Notion/매출 데이터를 분석하여 CEO에게 일일 리포트 발송",
		Endpoints: map[string]string{
			"daily":   "GET /api/cron - 일일 분석 실행",
			"initial": "GET /api/cron?days=7 - 최초 7일 종합 분석",
			"events":  "POST /api/events - Slack 이벤트 수신",
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func clampDays(raw string) int {
	if raw == "" {
		return defaultDays
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultDays
	}
	if n < 1 {
		return 1
	}
	if n > maxDays {
		return maxDays
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
