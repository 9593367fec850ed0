package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"

	"workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
	"workshopd/internal/ports"
)

// NATSNotifier publishes notifications as JSON on <prefix>.<event>.
type NATSNotifier struct {
	conn   *nats.Conn
	prefix string
}

var _ ports.Notifier = (*NATSNotifier)(nil)

func DialNATS(url string, subjectPrefix string) (*NATSNotifier, error) {
	if strings.TrimSpace(url) == "" {
		url = nats.DefaultURL
	}

	conn, err := nats.Connect(url, nats.Name("workshopd"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, errs.Wrapf(err, "connect nats %q", url)
	}
	return &NATSNotifier{conn: conn, prefix: subjectPrefix}, nil
}

func (p *NATSNotifier) Notify(ctx context.Context, n workshop.Notification) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return errs.Wrap(err, "marshal notification")
	}

	subject := Subject(p.prefix, n.Event)
	if err := p.conn.Publish(subject, payload); err != nil {
		return errs.Wrapf(err, "publish %s", subject)
	}
	return nil
}

// Close flushes pending messages before closing the connection.
func (p *NATSNotifier) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return errs.Wrap(err, "drain nats connection")
	}
	return nil
}

// Subject joins prefix and event with a dot, skipping an empty prefix.
func Subject(prefix string, event workshop.NotificationEvent) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return string(event)
	}
	return prefix + "." + string(event)
}
