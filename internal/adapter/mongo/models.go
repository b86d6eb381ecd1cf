package mongo

import (
	"fmt"
	"time"

	"github.com/atelierlaine/reservation-service/internal/domain/entity"
	"github.com/atelierlaine/reservation-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type creationDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Images      []string           `bson:"images"`
	Price       *float64           `bson:"price,omitempty"`
	Color       string             `bson:"color,omitempty"`
	Rank        int                `bson:"rank"`
	Reserved    bool               `bson:"reserved"`
	Sold        bool               `bson:"sold"`
	CreatedAt   time.Time          `bson:"created_at"`
}

type reservationDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CreationID    primitive.ObjectID `bson:"creation_id"`
	CustomerName  string             `bson:"customer_name"`
	CustomerEmail string             `bson:"customer_email"`
	Message       string             `bson:"message,omitempty"`
	Status        string             `bson:"status"`
	CancelReason  string             `bson:"cancel_reason,omitempty"`
	CancelledBy   string             `bson:"cancelled_by,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`

	// Filled by the $lookup stage on list reads; empty for orphans.
	Creation []creationDocument `bson:"creation,omitempty"`
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid ID format %q: %w", id, repository.ErrNotFound)
	}
	return objID, nil
}

func toDomainCreation(d *creationDocument) *entity.Creation {
	if d == nil {
		return nil
	}
	images := d.Images
	if images == nil {
		images = make([]string, 0)
	}
	return &entity.Creation{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Images:      images,
		Price:       d.Price,
		Color:       d.Color,
		Rank:        d.Rank,
		Reserved:    d.Reserved,
		Sold:        d.Sold,
		CreatedAt:   d.CreatedAt,
	}
}

func toDomainReservation(d *reservationDocument) *entity.Reservation {
	if d == nil {
		return nil
	}
	res := &entity.Reservation{
		ID:            d.ID.Hex(),
		CreationID:    d.CreationID.Hex(),
		CustomerName:  d.CustomerName,
		CustomerEmail: d.CustomerEmail,
		Message:       d.Message,
		Status:        entity.ReservationStatus(d.Status),
		CancelReason:  d.CancelReason,
		CancelledBy:   entity.CancelActor(d.CancelledBy),
		CreatedAt:     d.CreatedAt,
	}
	if len(d.Creation) > 0 {
		res.Creation = toDomainCreation(&d.Creation[0])
	}
	return res
}
