package outs

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"dungeonBot/internal/domain"
)

// Twitch lets a regular account send 20 messages every 30 seconds.
const (
	TwitchMessagesPerWindow = 20
	TwitchWindow            = 30 * time.Second
)

// RateLimitedSender delays outgoing messages so they stay under the chat
// service's send limit.
type RateLimitedSender struct {
	next    domain.OutgoingMessagePort
	limiter *rate.Limiter
}

func NewRateLimitedSender(next domain.OutgoingMessagePort, limiter *rate.Limiter) *RateLimitedSender {
	return &RateLimitedSender{next: next, limiter: limiter}
}

// NewTwitchLimiter spreads messagesPerWindow sends evenly over window. The
// burst is one so that no window of that length ever holds more than
// messagesPerWindow sends.
func NewTwitchLimiter(messagesPerWindow int, window time.Duration) *rate.Limiter {
	if messagesPerWindow <= 0 {
		messagesPerWindow = TwitchMessagesPerWindow
	}
	if window <= 0 {
		window = TwitchWindow
	}
	return rate.NewLimiter(rate.Every(window/time.Duration(messagesPerWindow)), 1)
}

func (s *RateLimitedSender) SendMessage(ctx context.Context, platform domain.Platform, channelID, text string) error {
	if s == nil || s.next == nil {
		return fmt.Errorf("outs: no sender configured")
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("outs: rate limit: %w", err)
		}
	}
	return s.next.SendMessage(ctx, platform, channelID, text)
}

var _ domain.OutgoingMessagePort = (*RateLimitedSender)(nil)
