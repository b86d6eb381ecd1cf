package service

import (
	"context"
	"fmt"

	"github.com/atelierlaine/reservation-service/internal/adapter/email"
	"github.com/atelierlaine/reservation-service/internal/app/config"
	"github.com/atelierlaine/reservation-service/internal/domain/entity"
	"github.com/atelierlaine/reservation-service/internal/platform/logger"
)

// Placeholder texts used when optional content is absent.
const (
	priceOnRequestText = "price on request"
	noReasonGivenText  = "no reason given"
	missingItemText    = "an item that is no longer listed"
)

// Notifier dispatches the transition emails. It is invoked only after the
// store write has committed; delivery is best-effort and failures are logged,
// never surfaced to the caller, so a dead mail channel cannot turn a
// successful transition into a reported failure.
type Notifier interface {
	ReservationValidated(ctx context.Context, reservation *entity.Reservation, creation *entity.Creation)
	ReservationCancelled(ctx context.Context, reservation *entity.Reservation, creation *entity.Creation)
}

type notifier struct {
	sender email.EmailSender
	cfg    config.NotificationsConfig
	log    logger.Logger
}

func NewNotifier(sender email.EmailSender, cfg config.NotificationsConfig, log logger.Logger) Notifier {
	return &notifier{
		sender: sender,
		cfg:    cfg,
		log:    log,
	}
}

func (n *notifier) ReservationValidated(ctx context.Context, reservation *entity.Reservation, creation *entity.Creation) {
	item := describeItem(creation)
	subject := fmt.Sprintf("%s - your reservation is confirmed", n.cfg.ShopName)

	buyerHTML := fmt.Sprintf(
		"<p>Hello %s,</p><p>Good news! Your reservation for %s has been confirmed by %s. The piece is now yours.</p>",
		reservation.CustomerName, item, n.cfg.ShopName,
	)
	buyerText := fmt.Sprintf(
		"Hello %s,\n\nGood news! Your reservation for %s has been confirmed by %s. The piece is now yours.\n",
		reservation.CustomerName, item, n.cfg.ShopName,
	)
	n.send(ctx, reservation.CustomerEmail, subject, buyerHTML, buyerText)

	if n.cfg.SellerEmail == "" {
		return
	}
	sellerSubject := fmt.Sprintf("%s - reservation validated", n.cfg.ShopName)
	sellerHTML := fmt.Sprintf(
		"<p>The reservation by %s (%s) for %s has been validated. The item is now marked as sold.</p>",
		reservation.CustomerName, reservation.CustomerEmail, item,
	)
	sellerText := fmt.Sprintf(
		"The reservation by %s (%s) for %s has been validated. The item is now marked as sold.\n",
		reservation.CustomerName, reservation.CustomerEmail, item,
	)
	n.send(ctx, n.cfg.SellerEmail, sellerSubject, sellerHTML, sellerText)
}

func (n *notifier) ReservationCancelled(ctx context.Context, reservation *entity.Reservation, creation *entity.Creation) {
	item := describeItem(creation)
	reason := reservation.CancelReason
	if reason == "" {
		reason = noReasonGivenText
	}

	subject := fmt.Sprintf("%s - your reservation was cancelled", n.cfg.ShopName)
	buyerHTML := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your reservation for %s has been cancelled. Reason: %s.</p><p>The item is available again.</p>",
		reservation.CustomerName, item, reason,
	)
	buyerText := fmt.Sprintf(
		"Hello %s,\n\nYour reservation for %s has been cancelled. Reason: %s.\nThe item is available again.\n",
		reservation.CustomerName, item, reason,
	)
	if reservation.CancelledBy == entity.CancelledByUser {
		subject = fmt.Sprintf("%s - your reservation cancellation", n.cfg.ShopName)
		buyerHTML = fmt.Sprintf(
			"<p>Hello %s,</p><p>Your reservation for %s has been cancelled as you requested. Reason: %s.</p>",
			reservation.CustomerName, item, reason,
		)
		buyerText = fmt.Sprintf(
			"Hello %s,\n\nYour reservation for %s has been cancelled as you requested. Reason: %s.\n",
			reservation.CustomerName, item, reason,
		)
	}
	n.send(ctx, reservation.CustomerEmail, subject, buyerHTML, buyerText)

	if n.cfg.SellerEmail == "" {
		return
	}
	sellerSubject := fmt.Sprintf("%s - reservation cancelled", n.cfg.ShopName)
	sellerHTML := fmt.Sprintf(
		"<p>The reservation by %s (%s) for %s has been cancelled by the %s. Reason: %s.</p>",
		reservation.CustomerName, reservation.CustomerEmail, item, string(reservation.CancelledBy), reason,
	)
	sellerText := fmt.Sprintf(
		"The reservation by %s (%s) for %s has been cancelled by the %s. Reason: %s.\n",
		reservation.CustomerName, reservation.CustomerEmail, item, string(reservation.CancelledBy), reason,
	)
	n.send(ctx, n.cfg.SellerEmail, sellerSubject, sellerHTML, sellerText)
}

func (n *notifier) send(ctx context.Context, to, subject, bodyHTML, bodyText string) {
	if err := n.sender.Send(ctx, []string{to}, subject, bodyHTML, bodyText); err != nil {
		n.log.Errorf("Notification to %s (subject: %s) failed: %v", to, subject, err)
	}
}

// describeItem renders the item line shared by all notification bodies. A nil
// creation means the referenced item was deleted; that is rendered, not
// treated as an error.
func describeItem(creation *entity.Creation) string {
	if creation == nil {
		return missingItemText
	}
	item := fmt.Sprintf("%q", creation.Title)
	if creation.Color != "" {
		item = fmt.Sprintf("%s (%s)", item, creation.Color)
	}
	if creation.Price != nil {
		return fmt.Sprintf("%s at %.2f EUR", item, *creation.Price)
	}
	return fmt.Sprintf("%s (%s)", item, priceOnRequestText)
}
