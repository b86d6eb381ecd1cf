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
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	creationCollectionName = "creations"
)

type creationRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewCreationRepository(db *mongo.Client, cfg config.MongoDBConfig) repository.CreationRepository {
	database := db.Database(cfg.Database)
	collection := database.Collection(creationCollectionName)
	return &creationRepository{
		db:         database,
		collection: collection,
	}
}

func (r *creationRepository) Create(ctx context.Context, params repository.CreateCreationParams) (string, error) {
	images := params.Images
	if images == nil {
		images = make([]string, 0)
	}
	doc := creationDocument{
		Title:       params.Title,
		Description: params.Description,
		Images:      images,
		Price:       params.Price,
		Color:       params.Color,
		Rank:        params.Rank,
		Reserved:    false,
		Sold:        false,
		CreatedAt:   time.Now().UTC(),
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create creation: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}

	return objectID.Hex(), nil
}

func (r *creationRepository) GetByID(ctx context.Context, creationID string) (*entity.Creation, error) {
	objID, err := parseObjectID(creationID)
	if err != nil {
		return nil, err
	}

	var doc creationDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get creation by ID %s: %w", creationID, err)
	}
	return toDomainCreation(&doc), nil
}

func (r *creationRepository) Update(ctx context.Context, params repository.UpdateCreationParams) error {
	objID, err := parseObjectID(params.CreationID)
	if err != nil {
		return err
	}

	images := params.Images
	if images == nil {
		images = make([]string, 0)
	}

	update := bson.M{
		"$set": bson.M{
			"title":       params.Title,
			"description": params.Description,
			"images":      images,
			"price":       params.Price,
			"color":       params.Color,
			"rank":        params.Rank,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update creation %s: %w", params.CreationID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *creationRepository) Delete(ctx context.Context, creationID string) error {
	objID, err := parseObjectID(creationID)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete creation %s: %w", creationID, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *creationRepository) List(ctx context.Context, params repository.ListCreationsParams) (*repository.ListCreationsResult, error) {
	filter := bson.M{}
	if params.OnlyAvailable {
		filter["reserved"] = false
		filter["sold"] = false
	}

	findOptions := options.Find()
	if params.PageSize > 0 {
		if params.Page <= 0 {
			params.Page = 1
		}
		findOptions.SetSkip(int64((params.Page - 1) * params.PageSize))
		findOptions.SetLimit(int64(params.PageSize))
	}
	findOptions.SetSort(bson.D{{Key: "rank", Value: 1}, {Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list creations: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []creationDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed creations: %w", err)
	}

	creations := make([]entity.Creation, len(docs))
	for i := range docs {
		creations[i] = *toDomainCreation(&docs[i])
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count creations: %w", err)
	}

	totalPages := 0
	if params.PageSize > 0 {
		totalPages = (int(totalCount) + params.PageSize - 1) / params.PageSize
	} else if totalCount > 0 {
		totalPages = 1
	}

	return &repository.ListCreationsResult{
		Creations:   creations,
		TotalCount:  totalCount,
		CurrentPage: params.Page,
		PageSize:    params.PageSize,
		TotalPages:  totalPages,
	}, nil
}

// Claim performs the check and the set in one conditional update so that two
// racing claims on the same creation resolve to exactly one winner.
func (r *creationRepository) Claim(ctx context.Context, creationID string) error {
	objID, err := parseObjectID(creationID)
	if err != nil {
		return err
	}

	filter := bson.M{
		"_id":      objID,
		"reserved": false,
		"sold":     false,
	}
	update := bson.M{
		"$set": bson.M{"reserved": true},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to claim creation %s: %w", creationID, err)
	}

	if result.MatchedCount == 0 {
		return r.missToError(ctx, objID, creationID)
	}
	return nil
}

func (r *creationRepository) MarkSold(ctx context.Context, creationID string) error {
	objID, err := parseObjectID(creationID)
	if err != nil {
		return err
	}

	filter := bson.M{
		"_id":  objID,
		"sold": false,
	}
	update := bson.M{
		"$set": bson.M{"sold": true, "reserved": false},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark creation %s sold: %w", creationID, err)
	}

	if result.MatchedCount == 0 {
		return r.missToError(ctx, objID, creationID)
	}
	return nil
}

func (r *creationRepository) Release(ctx context.Context, creationID string) error {
	objID, err := parseObjectID(creationID)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{"reserved": false, "sold": false},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to release creation %s: %w", creationID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// missToError distinguishes a lost race from a missing document after a
// conditional update matched nothing.
func (r *creationRepository) missToError(ctx context.Context, objID primitive.ObjectID, creationID string) error {
	errFind := r.collection.FindOne(ctx, bson.M{"_id": objID}).Err()
	if errors.Is(errFind, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if errFind != nil {
		return fmt.Errorf("failed to re-check creation %s after conditional miss: %w", creationID, errFind)
	}
	return repository.ErrConflict
}
