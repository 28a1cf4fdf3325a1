// Package notifier is an outbound-email implementation of
// internal/notify.Notifier. No SMTP/mail-sending library appears
// anywhere in the retrieval pack (original_source's own notification
// gateway is itself just a thin wrapper around an SMTP relay), so this
// adapter is built on net/smtp — the one ambient-stack component in
// this module with no grounded third-party library to reach for.
package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/log"
)

// SMTPNotifier sends each of the six notification events as a plain
// text email. It is used behind internal/flow.NotifierConsumer, so a
// send failure here is retried/circuit-broken by the caller, not by
// this type.
type SMTPNotifier struct {
	Addr string // host:port of the relay
	Auth smtp.Auth
	From string

	Logger log.Logger
}

func (n *SMTPNotifier) send(ctx context.Context, to []entity.EmailAddress, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	recipients := make([]string, len(to))
	for i, e := range to {
		recipients[i] = e.String()
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.From, strings.Join(recipients, ", "), subject, body)

	if err := smtp.SendMail(n.Addr, n.Auth, n.From, recipients, []byte(msg)); err != nil {
		return fmt.Errorf("notifier: send %q: %w", subject, err)
	}

	return nil
}

func (n *SMTPNotifier) PlaceAdded(ctx context.Context, place *entity.Place, recipients []entity.EmailAddress) error {
	return n.send(ctx, recipients, "New place: "+place.Title,
		fmt.Sprintf("A new place was added near you: %s", place.Title))
}

func (n *SMTPNotifier) PlaceUpdated(ctx context.Context, place *entity.Place, recipients []entity.EmailAddress) error {
	return n.send(ctx, recipients, "Place updated: "+place.Title,
		fmt.Sprintf("A place near you was updated: %s", place.Title))
}

func (n *SMTPNotifier) EventCreated(ctx context.Context, event *entity.Event, recipients []entity.EmailAddress) error {
	return n.send(ctx, recipients, "New event: "+event.Title,
		fmt.Sprintf("A new event was added near you: %s", event.Title))
}

func (n *SMTPNotifier) EventUpdated(ctx context.Context, event *entity.Event, recipients []entity.EmailAddress) error {
	return n.send(ctx, recipients, "Event updated: "+event.Title,
		fmt.Sprintf("An event near you was updated: %s", event.Title))
}

func (n *SMTPNotifier) UserRegistered(ctx context.Context, user *entity.User, confirmationURL string) error {
	return n.send(ctx, []entity.EmailAddress{user.Email}, "Confirm your account",
		"Confirm your account by visiting: "+confirmationURL)
}

func (n *SMTPNotifier) UserResetPasswordRequested(ctx context.Context, user *entity.User, nonce entity.EmailNonce) error {
	return n.send(ctx, []entity.EmailAddress{user.Email}, "Reset your password",
		"Your password reset code: "+entity.EncodeEmailNonce(nonce))
}
