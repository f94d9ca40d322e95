package services

import "context"

// Mail is one outgoing plain text message.
type Mail struct {
	To      []string
	Subject string
	Body    string
}

// Mailer delivers mail. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
