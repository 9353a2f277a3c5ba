package domain

// ChatMessage is one Slack message, channel or DM, with the author already
// resolved to a display name.
type ChatMessage struct {
	Conversation  string // "#channel-name" or "DM: <counterpart>"
	Author        string
	Text          string
	Timestamp     string // Slack ts, kept as string for dedup identity
	IsThreadReply bool
	ReplyCount    int
}

// ChatDigest is the chat collector's result for one run.
type ChatDigest struct {
	Messages     []ChatMessage
	ChannelCount int
	DMCount      int
}
