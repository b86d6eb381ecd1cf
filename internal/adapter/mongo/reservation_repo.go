package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atelierlaine/reservation-service/internal/app/config"
	"github.com/atelierlaine/reservation-service/internal/domain/entity"
	"github.com/atelierlaine/reservation-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	reservationCollectionName = "reservations"
)

type reservationRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewReservationRepository(db *mongo.Client, cfg config.MongoDBConfig) repository.ReservationRepository {
	database := db.Database(cfg.Database)
	collection := database.Collection(reservationCollectionName)
	return &reservationRepository{
		db:         database,
		collection: collection,
	}
}

func (r *reservationRepository) Create(ctx context.Context, params repository.CreateReservationParams) (string, error) {
	creationObjID, err := parseObjectID(params.CreationID)
	if err != nil {
		return "", err
	}

	doc := reservationDocument{
		CreationID:    creationObjID,
		CustomerName:  params.CustomerName,
		CustomerEmail: params.CustomerEmail,
		Message:       params.Message,
		Status:        string(entity.ReservationPending),
		CreatedAt:     time.Now().UTC(),
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create reservation: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}

	return objectID.Hex(), nil
}

func (r *reservationRepository) GetByID(ctx context.Context, reservationID string) (*entity.Reservation, error) {
	objID, err := parseObjectID(reservationID)
	if err != nil {
		return nil, err
	}

	var doc reservationDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reservation by ID %s: %w", reservationID, err)
	}
	return toDomainReservation(&doc), nil
}

// UpdateStatus writes the transition with the expected prior status in the
// filter, so a reservation that already left FromStatus loses with ErrConflict
// instead of being silently overwritten.
func (r *reservationRepository) UpdateStatus(ctx context.Context, params repository.UpdateReservationStatusParams) error {
	objID, err := parseObjectID(params.ReservationID)
	if err != nil {
		return err
	}

	filter := bson.M{
		"_id":    objID,
		"status": string(params.FromStatus),
	}

	setFields := bson.M{
		"status": string(params.ToStatus),
	}
	if params.ToStatus == entity.ReservationCancelled {
		setFields["cancel_reason"] = params.CancelReason
		setFields["cancelled_by"] = string(params.CancelledBy)
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": setFields})
	if err != nil {
		return fmt.Errorf("failed to update reservation status for ID %s: %w", params.ReservationID, err)
	}

	if result.MatchedCount == 0 {
		errFind := r.collection.FindOne(ctx, bson.M{"_id": objID}).Err()
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if errFind != nil {
			return fmt.Errorf("failed to re-check reservation %s after conditional miss: %w", params.ReservationID, errFind)
		}
		return repository.ErrConflict
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, reservationID string) error {
	objID, err := parseObjectID(reservationID)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete reservation %s: %w", reservationID, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) List(ctx context.Context, params repository.ListReservationsParams) (*repository.ListReservationsResult, error) {
	filter := bson.M{}
	if params.Status != "" {
		filter["status"] = params.Status
	}
	if params.CustomerEmail != "" {
		filter["customer_email"] = params.CustomerEmail
	}
	if params.Search != "" {
		regex := primitive.Regex{Pattern: params.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"customer_name": regex},
			bson.M{"customer_email": regex},
		}
	}

	page := params.Page
	if page <= 0 {
		page = 1
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	if params.PageSize > 0 {
		pipeline = append(pipeline,
			bson.D{{Key: "$skip", Value: int64((page - 1) * params.PageSize)}},
			bson.D{{Key: "$limit", Value: int64(params.PageSize)}},
		)
	}
	pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.M{
		"from":         creationCollectionName,
		"localField":   "creation_id",
		"foreignField": "_id",
		"as":           "creation",
	}}})

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []reservationDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed reservations: %w", err)
	}

	reservations := make([]entity.Reservation, len(docs))
	for i := range docs {
		reservations[i] = *toDomainReservation(&docs[i])
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}

	totalPages := 0
	if params.PageSize > 0 {
		totalPages = (int(totalCount) + params.PageSize - 1) / params.PageSize
	} else if totalCount > 0 {
		totalPages = 1
	}

	return &repository.ListReservationsResult{
		Reservations: reservations,
		TotalCount:   totalCount,
		CurrentPage:  page,
		PageSize:     params.PageSize,
		TotalPages:   totalPages,
	}, nil
}

func (r *reservationRepository) CountByStatus(ctx context.Context, status entity.ReservationStatus) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"status": string(status)})
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations by status %s: %w", status, err)
	}
	return count, nil
}

func (r *reservationRepository) FindPendingByCreation(ctx context.Context, creationID string) (*entity.Reservation, error) {
	creationObjID, err := parseObjectID(creationID)
	if err != nil {
		return nil, err
	}

	var doc reservationDocument
	err = r.collection.FindOne(ctx, bson.M{
		"creation_id": creationObjID,
		"status":      string(entity.ReservationPending),
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending reservation for creation %s: %w", creationID, err)
	}
	return toDomainReservation(&doc), nil
}
