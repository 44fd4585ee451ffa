package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/bookly-project/bookly/internal/metrics"
)

// Dispatcher queues mail jobs on NATS instead of sending inline, keeping
// SMTP latency out of the request path. A Worker on the same subject picks
// jobs up and delivers them.
type Dispatcher struct {
	conn    *nats.Conn
	subject string
}

func NewDispatcher(conn *nats.Conn, subject string) *Dispatcher {
	return &Dispatcher{conn: conn, subject: subject}
}

func (d *Dispatcher) Send(_ context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal mail job: %w", err)
	}
	if err := d.conn.Publish(d.subject, data); err != nil {
		metrics.MailDispatchTotal.WithLabelValues("publish_error").Inc()
		return fmt.Errorf("failed to publish mail job: %w", err)
	}
	metrics.MailDispatchTotal.WithLabelValues("queued").Inc()
	return nil
}

// Worker consumes queued mail jobs and delivers them through the wrapped
// Mailer.
type Worker struct {
	conn    *nats.Conn
	subject string
	mailer  Mailer
	sub     *nats.Subscription
}

func NewWorker(conn *nats.Conn, subject string, mailer Mailer) *Worker {
	return &Worker{conn: conn, subject: subject, mailer: mailer}
}

func (w *Worker) Start() error {
	sub, err := w.conn.Subscribe(w.subject, func(m *nats.Msg) {
		var msg Message
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			slog.Error("discarding malformed mail job", slog.String("error", err.Error()))
			return
		}
		if err := w.mailer.Send(context.Background(), msg); err != nil {
			metrics.MailDispatchTotal.WithLabelValues("send_error").Inc()
			slog.Error("mail delivery failed",
				slog.String("subject", msg.Subject),
				slog.String("error", err.Error()),
			)
			return
		}
		metrics.MailDispatchTotal.WithLabelValues("sent").Inc()
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", w.subject, err)
	}
	w.sub = sub
	return nil
}

func (w *Worker) Stop() error {
	if w.sub == nil {
		return nil
	}
	return w.sub.Unsubscribe()
}
