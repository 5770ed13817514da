package events

import "time"

// DispatchEvent describes one command execution.
type DispatchEvent struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	User      string    `json:"user"`
	Command   string    `json:"command"`
	Arguments []string  `json:"arguments"`
	Error     string    `json:"error,omitempty"`
	Duration  string    `json:"duration"`
	At        time.Time `json:"at"`
}
