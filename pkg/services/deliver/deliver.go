package deliver

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"

	"github.com/superwalkis/slack-ai/pkg/models/domain"
)

// sectionLimit is Slack's maximum text length for a section block. Bodies
// beyond it are continued in follow-up messages.
const sectionLimit = 3000

// MessagePoster posts one message to a Slack conversation.
type MessagePoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Deliverer DMs the finished report to the configured recipient.
type Deliverer struct {
	poster      MessagePoster
	recipientID string
	now         func() time.Time
}

func NewDeliverer(poster MessagePoster, recipientID string) *Deliverer {
	return &Deliverer{
		poster:      poster,
		recipientID: recipientID,
		now:         func() time.Time { return time.Now().In(kst) },
	}
}

var kst = loadKST()

func loadKST() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*3600)
	}
	return loc
}

// Send posts the report as a header + body + context message, then posts any
// overflow chunks as plain follow-ups. Failures are logged and swallowed;
// there is nowhere else to surface them.
func (d *Deliverer) Send(ctx context.Context, report *domain.Report) bool {
	logger := zerolog.Ctx(ctx)

	title := "📊 어제의 조직 모니터링 리포트"
	if report.Days > 1 {
		title = fmt.Sprintf("📊 최근 %d일 조직 모니터링 리포트", report.Days)
	}

	chunks := Chunk(report.Body, sectionLimit)
	if len(chunks) == 0 {
		chunks = []string{"(내용 없음)"}
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, chunks[0], false, false), nil, nil),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("생성 시간: %s | AI: Claude Sonnet 4", d.now().Format("2006-01-02 15:04")),
				false, false),
		),
	}

	_, _, err := d.poster.PostMessageContext(ctx, d.recipientID,
		slack.MsgOptionText(title+"\n\n"+chunks[0], false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		logger.Error().Err(err).Msg("report dm failed")
		return false
	}

	for _, chunk := range chunks[1:] {
		_, _, err := d.poster.PostMessageContext(ctx, d.recipientID,
			slack.MsgOptionText(chunk, false),
			slack.MsgOptionBlocks(
				slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, chunk, false, false), nil, nil),
			),
		)
		if err != nil {
			logger.Error().Err(err).Msg("follow-up chunk failed")
			return false
		}
	}

	logger.Info().Int("chunks", len(chunks)).Msg("report delivered")
	return true
}

// Chunk splits text into rune-bounded pieces of at most limit runes each.
// Concatenating the pieces in order reproduces the input exactly.
func Chunk(text string, limit int) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	var chunks []string
	for len(runes) > limit {
		chunks = append(chunks, string(runes[:limit]))
		runes = runes[limit:]
	}
	return append(chunks, string(runes))
}
