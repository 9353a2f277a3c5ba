package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/jomei/notionapi"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/superwalkis/slack-ai/pkg/server"
	calendarsvc "github.com/superwalkis/slack-ai/pkg/services/calendar"
	"github.com/superwalkis/slack-ai/pkg/services/chat"
	"github.com/superwalkis/slack-ai/pkg/services/config"
	"github.com/superwalkis/slack-ai/pkg/services/deliver"
	"github.com/superwalkis/slack-ai/pkg/services/docs"
	"github.com/superwalkis/slack-ai/pkg/services/llm"
	"github.com/superwalkis/slack-ai/pkg/services/report"
	"github.com/superwalkis/slack-ai/pkg/services/revenue"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the CEO daily report server",
		RunE:  runServer,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg := config.Load()

	deps, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	ctrl := report.NewController(deps)

	if cfg.ReportCron != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.ReportCron, func() {
			runCtx := logger.WithContext(context.Background())
			if _, err := ctrl.Run(runCtx, 1); err != nil {
				logger.Error().Err(err).Msg("scheduled run failed")
			}
		})
		if err != nil {
			return fmt.Errorf("invalid REPORT_CRON %q: %w", cfg.ReportCron, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info().Str("schedule", cfg.ReportCron).Msg("in-process schedule armed")
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
		ShutdownTimeout: 10 * time.Second,
		Dependencies:    server.Dependencies{Runner: ctrl},
	})

	return webAPI.Start()
}

// buildPipeline wires every configured collector. Missing credentials leave
// the matching dependency nil; the pipeline renders a placeholder section
// instead of failing.
func buildPipeline(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (report.Deps, error) {
	var deps report.Deps

	if cfg.HasSlack() {
		bot := slack.New(cfg.SlackBotToken)
		var user chat.SlackAPI
		if cfg.SlackUserToken != "" {
			user = slack.New(cfg.SlackUserToken)
		}
		deps.Chat = chat.NewCollector(bot, user)
		if cfg.RecipientID != "" {
			deps.Deliverer = deliver.NewDeliverer(bot, cfg.RecipientID)
		} else {
			logger.Warn().Msg("CEO_SLACK_ID unset, reports will not be delivered")
		}
	} else {
		logger.Warn().Msg("SLACK_BOT_TOKEN unset, chat collection and delivery disabled")
	}

	if cfg.AnthropicAPIKey != "" {
		deps.Summarizer = llm.NewClient(cfg.AnthropicAPIKey)
	} else {
		logger.Warn().Msg("ANTHROPIC_API_KEY unset, reports will carry the fallback text")
	}

	if cfg.HasRevenue() {
		svc, err := sheets.NewService(ctx,
			option.WithCredentialsFile(cfg.GoogleCredentialsFile),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope),
		)
		if err != nil {
			return deps, fmt.Errorf("sheets client: %w", err)
		}
		deps.Revenue = revenue.NewCollector(revenue.NewSheetsReader(svc), cfg.SpreadsheetID, cfg.MonthlyTarget)
	}

	if cfg.HasCalendar() {
		svc, err := calendarService(ctx, cfg)
		if err != nil {
			return deps, fmt.Errorf("calendar client: %w", err)
		}
		deps.Calendar = calendarsvc.NewCollector(calendarsvc.NewGoogleLister(svc), cfg.CalendarSubject)
	}

	if cfg.HasDocs() {
		client := notionapi.NewClient(notionapi.Token(cfg.NotionAPIKey))
		deps.Docs = docs.NewCollector(docs.NewAPIClient(client), cfg.NotionRootPageIDs, cfg.NotionDatabaseIDs)
	}

	return deps, nil
}

// calendarService impersonates the calendar owner through domain-wide
// delegation; reading another user's primary calendar needs a subject, not
// just a service account.
func calendarService(ctx context.Context, cfg *config.Config) (*gcal.Service, error) {
	key, err := os.ReadFile(cfg.GoogleCredentialsFile)
	if err != nil {
		return nil, err
	}
	jwt, err := google.JWTConfigFromJSON(key, gcal.CalendarReadonlyScope)
	if err != nil {
		return nil, err
	}
	jwt.Subject = cfg.CalendarSubject

	return gcal.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
}
