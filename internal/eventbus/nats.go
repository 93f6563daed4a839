package eventbus

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/mindspace/api/internal/genai"
)

// SubjectGeneration carries one message per completed generation facade call
const SubjectGeneration = "mindspace.generation"

// Bus publishes gateway events to NATS. Publishing is fire-and-forget: the
// gateway serves requests fine with the bus down, so errors are logged and
// swallowed.
type Bus struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// Connect dials NATS. Callers treat a failure as a degraded-but-running
// condition, not a startup error.
func Connect(url string, logger *zap.Logger) (*Bus, error) {
	nc, err := nats.Connect(url,
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, err
	}
	return &Bus{nc: nc, logger: logger}, nil
}

// Close drains the connection
func (b *Bus) Close() {
	if b.nc != nil {
		b.nc.Close()
	}
}

// PublishGeneration implements genai.Publisher
func (b *Bus) PublishGeneration(ev genai.GenerationEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		b.logger.Warn("could not marshal generation event", zap.Error(err))
		return
	}
	if err := b.nc.Publish(SubjectGeneration, data); err != nil {
		b.logger.Warn("could not publish generation event", zap.Error(err))
	}
}
