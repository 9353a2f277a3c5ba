package api

// RunResponse is the JSON envelope returned by the cron endpoint. The same
// shape is used for success and failure so schedulers can parse it blindly.
type RunResponse struct {
	Success          bool   `json:"success"`
	MessagesAnalyzed int    `json:"messagesAnalyzed"`
	PagesCollected   int    `json:"pagesCollected"`
	EventsCollected  int    `json:"eventsCollected"`
	RevenueDays      int    `json:"revenueDays"`
	Timestamp        string `json:"timestamp"`
	Error            string `json:"error,omitempty"`
}

// StatusResponse describes the service and its routes.
type StatusResponse struct {
	Status      string            `json:"status"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
	Timestamp   string            `json:"timestamp"`
}
