package domain

type Platform string

const (
	PlatformTwitch Platform = "twitch"
)

type Message struct {
	Platform  Platform
	ChannelID string
	// UserID is the numeric sender id as sent by the platform, empty when the
	// event carried none.
	UserID   string
	Username string
	Text     string
}
