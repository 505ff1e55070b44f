package domain

import "strings"

// Settings holds the board options that outlive the process. The webhook URL
// is the only one.
type Settings struct {
	WebhookURL string `json:"webhookUrl"`
}

// Normalize trims surrounding whitespace from user input.
func (s Settings) Normalize() Settings {
	s.WebhookURL = strings.TrimSpace(s.WebhookURL)
	return s
}
