package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/atelierlaine/reservation-service/internal/app/config"
	"github.com/atelierlaine/reservation-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func notifierConfig(sellerEmail string) config.NotificationsConfig {
	return config.NotificationsConfig{
		ShopName:    "Atelier Laine",
		SellerEmail: sellerEmail,
	}
}

func TestNotifier_Validated_SendsBuyerAndSeller(t *testing.T) {
	sender := new(MockEmailSender)
	n := NewNotifier(sender, notifierConfig("artisan@example.com"), NewNoOpLogger())

	price := 85.0
	reservation := pendingReservation("res1", "creation1", "alice@example.com")
	reservation.Status = entity.ReservationValidated
	creation := &entity.Creation{ID: "creation1", Title: "Merino shawl", Color: "heather grey", Price: &price}

	sender.On("Send", mock.Anything, []string{"alice@example.com"}, mock.Anything, mock.Anything, mock.MatchedBy(func(body string) bool {
		return len(body) > 0
	})).Return(nil).Once()
	sender.On("Send", mock.Anything, []string{"artisan@example.com"}, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	n.ReservationValidated(context.Background(), reservation, creation)

	sender.AssertExpectations(t)
}

func TestNotifier_Validated_NoSellerConfigured(t *testing.T) {
	sender := new(MockEmailSender)
	n := NewNotifier(sender, notifierConfig(""), NewNoOpLogger())

	reservation := pendingReservation("res1", "creation1", "alice@example.com")
	sender.On("Send", mock.Anything, []string{"alice@example.com"}, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	n.ReservationValidated(context.Background(), reservation, &entity.Creation{ID: "creation1", Title: "Merino shawl"})

	sender.AssertExpectations(t)
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestNotifier_Cancelled_EmptyReasonGetsPlaceholder(t *testing.T) {
	sender := new(MockEmailSender)
	n := NewNotifier(sender, notifierConfig(""), NewNoOpLogger())

	reservation := pendingReservation("res1", "creation1", "alice@example.com")
	reservation.Status = entity.ReservationCancelled
	reservation.CancelledBy = entity.CancelledByAdmin

	sender.On("Send", mock.Anything, []string{"alice@example.com"}, mock.Anything, mock.Anything, mock.MatchedBy(func(body string) bool {
		return containsAll(body, "no reason given")
	})).Return(nil).Once()

	n.ReservationCancelled(context.Background(), reservation, &entity.Creation{ID: "creation1", Title: "Merino shawl"})

	sender.AssertExpectations(t)
}

func TestNotifier_Cancelled_MissingCreationRendered(t *testing.T) {
	sender := new(MockEmailSender)
	n := NewNotifier(sender, notifierConfig(""), NewNoOpLogger())

	reservation := pendingReservation("res1", "creation1", "alice@example.com")
	reservation.Status = entity.ReservationCancelled
	reservation.CancelledBy = entity.CancelledByAdmin
	reservation.CancelReason = "item withdrawn"

	sender.On("Send", mock.Anything, []string{"alice@example.com"}, mock.Anything, mock.Anything, mock.MatchedBy(func(body string) bool {
		return containsAll(body, "an item that is no longer listed", "item withdrawn")
	})).Return(nil).Once()

	n.ReservationCancelled(context.Background(), reservation, nil)

	sender.AssertExpectations(t)
}

func TestNotifier_Cancelled_SelfCancelUsesRequestedCopy(t *testing.T) {
	sender := new(MockEmailSender)
	n := NewNotifier(sender, notifierConfig(""), NewNoOpLogger())

	reservation := pendingReservation("res1", "creation1", "alice@example.com")
	reservation.Status = entity.ReservationCancelled
	reservation.CancelledBy = entity.CancelledByUser

	sender.On("Send", mock.Anything, []string{"alice@example.com"}, mock.Anything, mock.Anything, mock.MatchedBy(func(body string) bool {
		return containsAll(body, "as you requested")
	})).Return(nil).Once()

	n.ReservationCancelled(context.Background(), reservation, &entity.Creation{ID: "creation1", Title: "Merino shawl"})

	sender.AssertExpectations(t)
}

func TestNotifier_SendFailureIsSwallowed(t *testing.T) {
	sender := new(MockEmailSender)
	n := NewNotifier(sender, notifierConfig("artisan@example.com"), NewNoOpLogger())

	reservation := pendingReservation("res1", "creation1", "alice@example.com")
	reservation.Status = entity.ReservationValidated

	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp unreachable")).Twice()

	assert.NotPanics(t, func() {
		n.ReservationValidated(context.Background(), reservation, &entity.Creation{ID: "creation1", Title: "Merino shawl"})
	})

	sender.AssertExpectations(t)
}

func TestNotifier_PriceOnRequest(t *testing.T) {
	sender := new(MockEmailSender)
	n := NewNotifier(sender, notifierConfig(""), NewNoOpLogger())

	reservation := pendingReservation("res1", "creation1", "alice@example.com")
	reservation.Status = entity.ReservationValidated

	sender.On("Send", mock.Anything, []string{"alice@example.com"}, mock.Anything, mock.Anything, mock.MatchedBy(func(body string) bool {
		return containsAll(body, "price on request")
	})).Return(nil).Once()

	n.ReservationValidated(context.Background(), reservation, &entity.Creation{ID: "creation1", Title: "Alpaca beanie"})

	sender.AssertExpectations(t)
}

func containsAll(body string, parts ...string) bool {
	for _, part := range parts {
		if !strings.Contains(body, part) {
			return false
		}
	}
	return true
}
