// internal/workers/fulfillment/process-requests/notify.go
package processrequests

import (
	"context"

	commonaws "dining-concierge/internal/common/aws"
)

// SESEmailSender sends suggestion emails from a fixed verified address.
// Implements EmailSender.
type SESEmailSender struct {
	client *commonaws.SESClient
	from   string
}

func NewSESEmailSender(client *commonaws.SESClient, from string) *SESEmailSender {
	return &SESEmailSender{client: client, from: from}
}

func (s *SESEmailSender) SendTextEmail(ctx context.Context, to, subject, body string) error {
	return s.client.SendTextEmail(ctx, s.from, to, subject, body)
}
