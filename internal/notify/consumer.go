package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/stan.go"

	"github.com/fuelflow/fuelops-backend/pkg/config"
	"github.com/fuelflow/fuelops-backend/pkg/logger"
)

const (
	queueGroup = "sms-dispatch"
	ackWait    = 30 * time.Second
)

// Sender delivers a single SMS through the carrier gateway.
type Sender interface {
	Send(ctx context.Context, msg SMSMessage) error
}

// Consumer drains the SMS dispatch subject with a durable queue subscription.
type Consumer struct {
	conn    stan.Conn
	subject string
	durable string
	sender  Sender
	logg    *logger.Logger
	sub     stan.Subscription
}

// NewConsumer connects to the streaming cluster for the SMS worker.
func NewConsumer(cfg config.SMSConfig, sender Sender, logg *logger.Logger) (*Consumer, error) {
	if sender == nil {
		return nil, fmt.Errorf("sms sender required")
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("stan client id required")
	}
	conn, err := stan.Connect(cfg.ClusterID, cfg.ClientID, stan.NatsURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("connecting to stan cluster %q: %w", cfg.ClusterID, err)
	}
	return &Consumer{
		conn:    conn,
		subject: cfg.Subject,
		durable: cfg.Durable,
		sender:  sender,
		logg:    logg,
	}, nil
}

// Start subscribes and begins processing. Messages are acked only after the
// sender succeeds, so a crashed worker redelivers.
func (c *Consumer) Start(ctx context.Context) error {
	sub, err := c.conn.QueueSubscribe(c.subject, queueGroup, func(msg *stan.Msg) {
		c.handle(ctx, msg)
	},
		stan.DurableName(c.durable),
		stan.SetManualAckMode(),
		stan.AckWait(ackWait),
	)
	if err != nil {
		return fmt.Errorf("subscribing to %q: %w", c.subject, err)
	}
	c.sub = sub
	if c.logg != nil {
		c.logg.Info(c.logg.WithField(ctx, "subject", c.subject), "sms consumer started")
	}
	return nil
}

func (c *Consumer) handle(ctx context.Context, msg *stan.Msg) {
	sms, err := decodeSMS(msg.Data)
	if err != nil {
		// Poison message: ack it away, redelivery will never succeed.
		if c.logg != nil {
			c.logg.Error(ctx, "dropping malformed sms payload", err)
		}
		_ = msg.Ack()
		return
	}

	if err := c.sender.Send(ctx, sms); err != nil {
		if c.logg != nil {
			c.logg.Error(ctx, "sms send failed, leaving message for redelivery", err)
		}
		return
	}

	if err := msg.Ack(); err != nil && c.logg != nil {
		c.logg.Error(ctx, "acking sms message", err)
	}
}

// Close tears down the subscription and connection.
func (c *Consumer) Close() error {
	if c.sub != nil {
		_ = c.sub.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
