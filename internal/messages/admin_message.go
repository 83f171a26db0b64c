package messages

import "net/url"

// MessagePath is where pending admin messages are displayed.
const MessagePath = "/admin/message"

// TypeConfirmation marks a message that must be validated before the
// administrator continues to its target.
const TypeConfirmation = "confirmation"

// AdminMessage is a prompt shown on an interstitial page before the
// administrator continues to TargetURL.
type AdminMessage struct {
	Key       string `json:"key"`
	TargetURL string `json:"target_url"`
	Type      string `json:"type"`
	CancelURL string `json:"cancel_url,omitempty"`
}

// NewConfirmation builds a confirmation prompt posting to target with params attached.
func NewConfirmation(key, target string, params url.Values, cancelURL string) *AdminMessage {
	u := target
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return &AdminMessage{
		Key:       key,
		TargetURL: u,
		Type:      TypeConfirmation,
		CancelURL: cancelURL,
	}
}

// IsConfirmation reports whether the message asks for a confirmation.
func (m *AdminMessage) IsConfirmation() bool {
	return m.Type == TypeConfirmation
}

// MessageURL returns the URL of the admin message page.
func MessageURL() string {
	return MessagePath
}
