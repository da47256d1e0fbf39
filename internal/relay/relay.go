// Package relay carries speed meter events between processes over NATS.
package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/verte-zerg/ripah/internal/meter"
)

// DefaultSubject is the subject meter events are published on.
const DefaultSubject = "ripah.meter"

// Event kinds. KindReset marks the start of a new session; receivers discard
// their meter and start an empty one of the same capacity.
const (
	KindProgress   = "progress"
	KindNoProgress = "no-progress"
	KindReset      = "reset"
)

// ErrReset is returned by Apply for reset events, which need a new meter
// rather than a sample.
var ErrReset = errors.New("reset event needs a new meter")

// Event is one sample fed into a meter.
type Event struct {
	Kind  string `json:"kind"`
	Mark  int64  `json:"mark"`
	Value int    `json:"value"`
}

// Apply records ev into m.
func Apply(m *meter.Meter, ev Event) error {
	switch ev.Kind {
	case KindProgress:
		m.RecordProgress(ev.Mark, ev.Value)
	case KindNoProgress:
		m.RecordNoProgress(ev.Mark)
	case KindReset:
		return ErrReset
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return nil
}

// Decode parses an event payload.
func Decode(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	return ev, nil
}

// Connect dials the NATS server at url.
func Connect(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name(name))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return nc, nil
}

// Publisher sends meter events to a subject.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher returns a publisher on subject, or DefaultSubject when empty.
func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{nc: nc, subject: subject}
}

// Publish sends ev.
func (p *Publisher) Publish(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe delivers every event on subject to fn. Payloads that fail to
// decode are passed to onErr.
func Subscribe(nc *nats.Conn, subject string, fn func(Event), onErr func(error)) (*nats.Subscription, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		ev, err := Decode(msg.Data)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		fn(ev)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	return sub, nil
}
