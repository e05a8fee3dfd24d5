package messenger

import (
	"context"
)

// Message is one guardian notification ready to send. The dispatcher builds
// it from a daily report; the transport does not know about reports.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Transport delivers a single message. The backend does not care about the
// underlying channel; SMTP is what the academy runs today.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}
