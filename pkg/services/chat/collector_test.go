package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type mockSlackAPI struct {
	mock.Mock
}

func (m *mockSlackAPI) GetConversationsContext(
	ctx context.Context,
	params *slack.GetConversationsParameters,
) ([]slack.Channel, string, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]slack.Channel), args.String(1), args.Error(2)
}

func (m *mockSlackAPI) GetConversationHistoryContext(
	ctx context.Context,
	params *slack.GetConversationHistoryParameters,
) (*slack.GetConversationHistoryResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slack.GetConversationHistoryResponse), args.Error(1)
}

func (m *mockSlackAPI) GetConversationRepliesContext(
	ctx context.Context,
	params *slack.GetConversationRepliesParameters,
) ([]slack.Message, bool, string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, false, "", args.Error(3)
	}
	return args.Get(0).([]slack.Message), args.Bool(1), args.String(2), args.Error(3)
}

func (m *mockSlackAPI) GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]slack.User), args.Error(1)
}

func channel(id, name string) slack.Channel {
	ch := slack.Channel{}
	ch.ID = id
	ch.Name = name
	return ch
}

func message(user, text, ts string) slack.Message {
	msg := slack.Message{}
	msg.User = user
	msg.Text = text
	msg.Timestamp = ts
	return msg
}

func threadParent(user, text, ts string, replies int) slack.Message {
	msg := message(user, text, ts)
	msg.ThreadTimestamp = ts
	msg.ReplyCount = replies
	return msg
}

func newTestCollector(bot, user SlackAPI) *Collector {
	c := NewCollector(bot, user)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestCollectThreadRepliesDeduplicated(t *testing.T) {
	bot := new(mockSlackAPI)
	bot.On("GetUsersContext", mock.Anything).Return([]slack.User{
		{ID: "U1", RealName: "김철수"},
		{ID: "U2", Name: "jane"},
	}, nil)
	bot.On("GetConversationsContext", mock.Anything, mock.Anything).Return(
		[]slack.Channel{channel("C1", "dev")}, "", nil)

	parent := threadParent("U1", "배포 논의", "1001.000100", 2)
	bot.On("GetConversationHistoryContext", mock.Anything, mock.MatchedBy(func(p *slack.GetConversationHistoryParameters) bool {
		return p.ChannelID == "C1"
	})).Return(&slack.GetConversationHistoryResponse{Messages: []slack.Message{parent}}, nil)

	// The replies fetch returns the parent again plus two replies; the
	// parent must not be duplicated.
	bot.On("GetConversationRepliesContext", mock.Anything, mock.MatchedBy(func(p *slack.GetConversationRepliesParameters) bool {
		return p.ChannelID == "C1" && p.Timestamp == "1001.000100"
	})).Return([]slack.Message{
		threadParent("U1", "배포 논의", "1001.000100", 2),
		message("U2", "오늘 밤 가능", "1001.000200"),
		message("U1", "확정", "1001.000300"),
	}, false, "", nil)

	digest, err := newTestCollector(bot, nil).Collect(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, digest.Messages, 3)
	assert.Equal(t, "김철수", digest.Messages[0].Author)
	assert.False(t, digest.Messages[0].IsThreadReply)
	assert.True(t, digest.Messages[1].IsThreadReply)
	assert.Equal(t, "jane", digest.Messages[1].Author)
	assert.True(t, digest.Messages[2].IsThreadReply)
	assert.Equal(t, 1, digest.ChannelCount)
}

func TestCollectChannelFailureSwallowed(t *testing.T) {
	bot := new(mockSlackAPI)
	bot.On("GetUsersContext", mock.Anything).Return([]slack.User{{ID: "U1", RealName: "김철수"}}, nil)
	bot.On("GetConversationsContext", mock.Anything, mock.Anything).Return(
		[]slack.Channel{channel("C1", "private-finance"), channel("C2", "general")}, "", nil)

	bot.On("GetConversationHistoryContext", mock.Anything, mock.MatchedBy(func(p *slack.GetConversationHistoryParameters) bool {
		return p.ChannelID == "C1"
	})).Return(nil, fmt.Errorf("missing_scope"))
	bot.On("GetConversationHistoryContext", mock.Anything, mock.MatchedBy(func(p *slack.GetConversationHistoryParameters) bool {
		return p.ChannelID == "C2"
	})).Return(&slack.GetConversationHistoryResponse{Messages: []slack.Message{
		message("U1", "좋은 아침", "1002.000100"),
	}}, nil)

	digest, err := newTestCollector(bot, nil).Collect(context.Background(), 1)
	require.NoError(t, err)

	// The failing channel contributes nothing; the run continues.
	require.Len(t, digest.Messages, 1)
	assert.Equal(t, "#general", digest.Messages[0].Conversation)
	assert.Equal(t, 1, digest.ChannelCount)
}

func TestCollectDirectMessages(t *testing.T) {
	bot := new(mockSlackAPI)
	bot.On("GetUsersContext", mock.Anything).Return([]slack.User{{ID: "U9", RealName: "박영희"}}, nil)
	bot.On("GetConversationsContext", mock.Anything, mock.Anything).Return([]slack.Channel{}, "", nil)

	user := new(mockSlackAPI)
	im := slack.Channel{}
	im.ID = "D1"
	im.User = "U9"
	user.On("GetConversationsContext", mock.Anything, mock.MatchedBy(func(p *slack.GetConversationsParameters) bool {
		return len(p.Types) == 1 && p.Types[0] == "im"
	})).Return([]slack.Channel{im}, "", nil)
	user.On("GetConversationHistoryContext", mock.Anything, mock.Anything).Return(
		&slack.GetConversationHistoryResponse{Messages: []slack.Message{
			message("U9", "내일 보고 드리겠습니다", "1003.000100"),
		}}, nil)

	digest, err := newTestCollector(bot, user).Collect(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, digest.Messages, 1)
	assert.Equal(t, "DM: 박영희", digest.Messages[0].Conversation)
	assert.Equal(t, 1, digest.DMCount)
	assert.Equal(t, 0, digest.ChannelCount)
}

func TestCollectUnknownAuthor(t *testing.T) {
	bot := new(mockSlackAPI)
	bot.On("GetUsersContext", mock.Anything).Return([]slack.User{}, nil)
	bot.On("GetConversationsContext", mock.Anything, mock.Anything).Return(
		[]slack.Channel{channel("C1", "dev")}, "", nil)
	bot.On("GetConversationHistoryContext", mock.Anything, mock.Anything).Return(
		&slack.GetConversationHistoryResponse{Messages: []slack.Message{
			message("UGONE", "퇴사자 메시지", "1004.000100"),
		}}, nil)

	digest, err := newTestCollector(bot, nil).Collect(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, digest.Messages, 1)
	assert.Equal(t, "알 수 없음", digest.Messages[0].Author)
}

func TestCollectListFailure(t *testing.T) {
	bot := new(mockSlackAPI)
	bot.On("GetUsersContext", mock.Anything).Return([]slack.User{}, nil)
	bot.On("GetConversationsContext", mock.Anything, mock.Anything).Return(
		[]slack.Channel(nil), "", fmt.Errorf("invalid_auth"))

	digest, err := newTestCollector(bot, nil).Collect(context.Background(), 1)
	assert.Error(t, err)
	assert.Nil(t, digest)
}
