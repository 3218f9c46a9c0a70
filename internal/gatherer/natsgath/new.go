package natsgath

import (
	"github.com/nats-io/nats.go"
)

type publisher interface {
	Publish(subj string, data []byte) error
}

// New creates a new NATS gatherer that streams conversion events to subject.
func New(nc *nats.Conn, runUuid string, subject string) *natsGatherer {
	return newGatherer(nc, runUuid, subject)
}

func newGatherer(pub publisher, runUuid string, subject string) *natsGatherer {
	return &natsGatherer{
		pub:     pub,
		subject: subject,
		runUuid: runUuid,
	}
}
