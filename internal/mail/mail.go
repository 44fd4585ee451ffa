// Package mail delivers transactional email for signup verification and
// password resets. Delivery is fire-and-forget from the auth service's
// perspective: a failed send is logged and counted, never surfaced as an
// auth failure.
package mail

import "context"

type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
