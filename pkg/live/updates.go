package live

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/store"
)

// Updates is the /api/updates channel. Every parsed message lands in the
// Messages store; consumers treat a notification as a re-fetch signal, the
// payload is never merged into local state.
type Updates struct {
	*Channel

	// Messages holds the last update received. Subscribers re-fetch the
	// server views they care about when it changes.
	Messages *store.Store[*models.UpdateMessage]
}

// NewUpdates creates the update channel for the given ws:// URL.
func NewUpdates(url string, log *logrus.Entry, opts Options) *Updates {
	u := &Updates{
		Messages: store.New[*models.UpdateMessage](nil),
	}
	u.Channel = NewChannel(url, log, opts, u.handleFrame)
	return u
}

// handleFrame parses one inbound frame. Frames that are not valid JSON for
// the update shape are logged and dropped; an out-of-contract message must
// never take the channel down.
func (u *Updates) handleFrame(data []byte) {
	var msg models.UpdateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		u.log.WithError(err).Debug("ignoring malformed update message")
		return
	}
	if msg.Type == "" {
		u.log.Debug("ignoring update message with no type")
		return
	}
	u.Messages.Set(&msg)
}
