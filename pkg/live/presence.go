package live

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/store"
)

// PresenceChannel is the /ws/presence channel. Inbound roster traffic is
// applied to the Roster; on every connect the local user announces itself
// with a hello message so other clients see it appear.
type PresenceChannel struct {
	*Channel

	roster *store.Roster
	self   models.Presence
}

// NewPresence creates the presence channel. self identifies the local user;
// its ID is also used by the roster to filter the local user out of the
// "who else is here" view.
func NewPresence(url string, log *logrus.Entry, opts Options, roster *store.Roster, self models.Presence) *PresenceChannel {
	p := &PresenceChannel{
		roster: roster,
		self:   self,
	}
	opts.Hello = models.PresenceMessage{
		Type: models.PresenceMsgHello,
		User: &p.self,
	}
	p.Channel = NewChannel(url, log, opts, p.handleFrame)
	return p
}

// AnnounceView tells the server which view the local user is looking at.
// Failures are ignored; the next reconnect re-announces anyway.
func (p *PresenceChannel) AnnounceView(view string) {
	p.self.CurrentView = view
	msg := models.PresenceMessage{
		Type: models.PresenceMsgUpdate,
		User: &p.self,
	}
	if err := p.Send(msg); err != nil {
		p.log.WithError(err).Debug("failed to announce view change")
	}
}

func (p *PresenceChannel) handleFrame(data []byte) {
	var msg models.PresenceMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		p.log.WithError(err).Debug("ignoring malformed presence message")
		return
	}
	p.roster.Apply(msg)
}
