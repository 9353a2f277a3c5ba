package adapters

import (
	"time"

	"github.com/superwalkis/slack-ai/pkg/models/api"
	"github.com/superwalkis/slack-ai/pkg/models/domain"
)

func MapRunSummaryToResponse(summary domain.RunSummary) api.RunResponse {
	return api.RunResponse{
		Success:          true,
		MessagesAnalyzed: summary.Messages,
		PagesCollected:   summary.Pages,
		EventsCollected:  summary.Events,
		RevenueDays:      summary.RevenueDays,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
}

func MapRunErrorToResponse(err error) api.RunResponse {
	return api.RunResponse{
		Success:   false,
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
