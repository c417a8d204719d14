package amqp

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"finboard/internal/notify"
)

// BannerMessage asks the dashboard to show a notification banner.
type BannerMessage struct {
	notify.Message
	Timestamp time.Time `json:"timestamp"`
}

// NewBannerMessage stamps m with the current time.
func NewBannerMessage(m notify.Message) *BannerMessage {
	return &BannerMessage{Message: m, Timestamp: time.Now()}
}

// Validate rejects messages that would render an empty banner.
func (m *BannerMessage) Validate() error {
	if strings.TrimSpace(m.Text) == "" {
		return fmt.Errorf("banner text is required")
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *BannerMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BannerMessageFromJSON decodes and validates a message.
func BannerMessageFromJSON(data []byte) (*BannerMessage, error) {
	var msg BannerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
