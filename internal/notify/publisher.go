package notify

import (
	"context"
	"fmt"

	"github.com/nats-io/stan.go"

	"github.com/fuelflow/fuelops-backend/pkg/config"
	"github.com/fuelflow/fuelops-backend/pkg/logger"
)

// Publisher pushes SMS dispatch messages onto NATS Streaming.
type Publisher struct {
	conn    stan.Conn
	subject string
	logg    *logger.Logger
}

// NewPublisher connects to the streaming cluster and returns a publisher bound
// to the configured SMS subject.
func NewPublisher(cfg config.SMSConfig, logg *logger.Logger) (*Publisher, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("stan client id required")
	}
	conn, err := stan.Connect(cfg.ClusterID, cfg.ClientID, stan.NatsURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("connecting to stan cluster %q: %w", cfg.ClusterID, err)
	}
	return &Publisher{conn: conn, subject: cfg.Subject, logg: logg}, nil
}

// Publish sends the SMS message. Delivery is at-least-once; the consumer is
// responsible for dedup if the carrier charges per send.
func (p *Publisher) Publish(ctx context.Context, msg SMSMessage) error {
	if p == nil || p.conn == nil {
		return fmt.Errorf("sms publisher not initialized")
	}
	data, err := encodeSMS(msg)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publishing sms to %q: %w", p.subject, err)
	}
	if p.logg != nil {
		p.logg.Info(p.logg.WithField(ctx, "subject", p.subject), "sms queued")
	}
	return nil
}

// Close terminates the streaming connection.
func (p *Publisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
