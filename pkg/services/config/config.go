package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is built entirely from environment variables. A missing credential
// disables the collector that needs it; it never fails the load.
type Config struct {
	ServerHost string
	ServerPort string

	SlackBotToken  string
	SlackUserToken string
	RecipientID    string // Slack member ID the report is DMed to

	AnthropicAPIKey string

	NotionAPIKey      string
	NotionRootPageIDs []string
	NotionDatabaseIDs []string

	GoogleCredentialsFile string // service account key JSON
	SpreadsheetID         string
	MonthlyTarget         int64 // KRW
	CalendarSubject       string // impersonated owner for domain-wide delegation

	ReportCron string // optional cron expression for in-process scheduling
}

func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")

	return &Config{
		ServerHost:            v.GetString("SERVER_HOST"),
		ServerPort:            v.GetString("SERVER_PORT"),
		SlackBotToken:         v.GetString("SLACK_BOT_TOKEN"),
		SlackUserToken:        v.GetString("SLACK_USER_TOKEN"),
		RecipientID:           v.GetString("CEO_SLACK_ID"),
		AnthropicAPIKey:       v.GetString("ANTHROPIC_API_KEY"),
		NotionAPIKey:          v.GetString("NOTION_API_KEY"),
		NotionRootPageIDs:     splitIDs(v.GetString("NOTION_ROOT_PAGE_IDS")),
		NotionDatabaseIDs:     splitIDs(v.GetString("NOTION_DATABASE_IDS")),
		GoogleCredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
		SpreadsheetID:         v.GetString("REVENUE_SPREADSHEET_ID"),
		MonthlyTarget:         v.GetInt64("MONTHLY_REVENUE_TARGET"),
		CalendarSubject:       v.GetString("CALENDAR_SUBJECT_EMAIL"),
		ReportCron:            v.GetString("REPORT_CRON"),
	}
}

// HasSlack reports whether the chat collector and delivery can run at all.
func (c *Config) HasSlack() bool {
	return c.SlackBotToken != ""
}

func (c *Config) HasRevenue() bool {
	return c.GoogleCredentialsFile != "" && c.SpreadsheetID != ""
}

func (c *Config) HasCalendar() bool {
	return c.GoogleCredentialsFile != "" && c.CalendarSubject != ""
}

func (c *Config) HasDocs() bool {
	return c.NotionAPIKey != ""
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
