package alert

import (
	"context"
)

// AlertInterface sends email notifications about build lifecycle events.
type AlertInterface interface {
	BuildFailureAlert(ctx context.Context, jobName string) error
	BuildFinishedAlert(ctx context.Context, jobName string) error
}

// alertHandlerInterface is implemented by concrete senders, currently SMTP only.
type alertHandlerInterface interface {
	SendMessageTo(ctx context.Context, email, subject, body string) error
}
