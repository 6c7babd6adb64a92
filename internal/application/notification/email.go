package notification

import "context"

// EmailSender delivers notification emails. Delivery is best-effort:
// the notification service logs failures and keeps going, so
// implementations must not block beyond their own timeout.
type EmailSender interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}
