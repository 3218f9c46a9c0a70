package natsgath

import (
	"encoding/json"
	"log/slog"
)

func (s *natsGatherer) send(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal message", "error", err)
		return
	}

	if err := s.pub.Publish(s.subject, b); err != nil {
		slog.Warn("failed to publish message to NATS", "subject", s.subject, "error", err)
	}
}
