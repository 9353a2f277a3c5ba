package chat

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"golang.org/x/time/rate"

	"github.com/superwalkis/slack-ai/pkg/models/domain"
)

// SlackAPI is the subset of the Slack client the collector uses. Both the
// bot-token and user-token clients satisfy it.
type SlackAPI interface {
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error)
	GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error)
}

// Collector reads channel history with the bot identity and direct messages
// with the user identity. The user client may be nil; DMs are then skipped.
type Collector struct {
	bot     SlackAPI
	user    SlackAPI
	limiter *rate.Limiter
}

// Tier 3 Slack Web API methods allow ~50 requests per minute; one token per
// 1.3s keeps a comfortable margin without adaptive backoff.
func NewCollector(bot, user SlackAPI) *Collector {
	return &Collector{
		bot:     bot,
		user:    user,
		limiter: rate.NewLimiter(rate.Every(1300*time.Millisecond), 3),
	}
}

type messageKey struct {
	ts      string
	channel string
}

// Collect gathers messages from the last `days` days. A single
// conversation's failure drops that conversation only; the digest still
// carries everything else.
func (c *Collector) Collect(ctx context.Context, days int) (*domain.ChatDigest, error) {
	logger := zerolog.Ctx(ctx)

	now := time.Now()
	oldest := strconv.FormatInt(now.AddDate(0, 0, -days).Unix(), 10)
	latest := strconv.FormatInt(now.Unix(), 10)

	names, err := c.userNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve user names: %w", err)
	}

	digest := &domain.ChatDigest{}
	seen := make(map[messageKey]bool)

	channels, err := c.listConversations(ctx, c.bot, []string{"public_channel", "private_channel"})
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	for _, ch := range channels {
		if ch.IsArchived {
			continue
		}
		label := "#" + ch.Name
		n, err := c.collectConversation(ctx, c.bot, ch.ID, label, oldest, latest, names, seen, digest)
		if err != nil {
			logger.Warn().Err(err).Str("channel", label).Msg("channel skipped")
			continue
		}
		if n > 0 {
			digest.ChannelCount++
		}
	}

	if c.user != nil {
		ims, err := c.listConversations(ctx, c.user, []string{"im"})
		if err != nil {
			logger.Warn().Err(err).Msg("dm listing skipped")
		} else {
			for _, im := range ims {
				counterpart := names[im.User]
				if counterpart == "" {
					counterpart = im.User
				}
				label := "DM: " + counterpart
				n, err := c.collectConversation(ctx, c.user, im.ID, label, oldest, latest, names, seen, digest)
				if err != nil {
					logger.Warn().Err(err).Str("dm", label).Msg("dm skipped")
					continue
				}
				if n > 0 {
					digest.DMCount++
				}
			}
		}
	}

	logger.Info().
		Int("messages", len(digest.Messages)).
		Int("channels", digest.ChannelCount).
		Int("dms", digest.DMCount).
		Msg("slack messages collected")

	return digest, nil
}

func (c *Collector) collectConversation(
	ctx context.Context,
	api SlackAPI,
	channelID, label, oldest, latest string,
	names map[string]string,
	seen map[messageKey]bool,
	digest *domain.ChatDigest,
) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	history, err := api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Oldest:    oldest,
		Latest:    latest,
		Limit:     200,
	})
	if err != nil {
		return 0, err
	}

	added := 0
	for _, msg := range history.Messages {
		if c.add(digest, seen, channelID, label, msg, names, false) {
			added++
		}
		// A parent message carries its own ts as the thread marker.
		if msg.ThreadTimestamp != "" && msg.ThreadTimestamp == msg.Timestamp && msg.ReplyCount > 0 {
			n, err := c.collectReplies(ctx, api, channelID, label, msg.ThreadTimestamp, names, seen, digest)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("channel", label).Msg("thread skipped")
				continue
			}
			added += n
		}
	}
	return added, nil
}

func (c *Collector) collectReplies(
	ctx context.Context,
	api SlackAPI,
	channelID, label, threadTS string,
	names map[string]string,
	seen map[messageKey]bool,
	digest *domain.ChatDigest,
) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	replies, _, _, err := api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: threadTS,
		Limit:     200,
	})
	if err != nil {
		return 0, err
	}

	added := 0
	for _, msg := range replies {
		isReply := msg.Timestamp != threadTS
		if c.add(digest, seen, channelID, label, msg, names, isReply) {
			added++
		}
	}
	return added, nil
}

// add appends a message unless its (timestamp, channel) pair is already
// present; thread re-fetches would otherwise duplicate parents.
func (c *Collector) add(
	digest *domain.ChatDigest,
	seen map[messageKey]bool,
	channelID, label string,
	msg slack.Message,
	names map[string]string,
	isReply bool,
) bool {
	if msg.Text == "" || msg.SubType == "channel_join" {
		return false
	}
	key := messageKey{ts: msg.Timestamp, channel: channelID}
	if seen[key] {
		return false
	}
	seen[key] = true

	author := names[msg.User]
	if author == "" {
		author = "알 수 없음"
	}
	digest.Messages = append(digest.Messages, domain.ChatMessage{
		Conversation:  label,
		Author:        author,
		Text:          msg.Text,
		Timestamp:     msg.Timestamp,
		IsThreadReply: isReply,
		ReplyCount:    msg.ReplyCount,
	})
	return true
}

func (c *Collector) listConversations(ctx context.Context, api SlackAPI, types []string) ([]slack.Channel, error) {
	var all []slack.Channel
	cursor := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		channels, next, err := api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
			Types:           types,
			ExcludeArchived: true,
			Limit:           200,
			Cursor:          cursor,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, channels...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

func (c *Collector) userNames(ctx context.Context) (map[string]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	users, err := c.bot.GetUsersContext(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		name := u.RealName
		if name == "" {
			name = u.Name
		}
		names[u.ID] = name
	}
	return names, nil
}
