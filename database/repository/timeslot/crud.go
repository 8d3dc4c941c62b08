// File: database/repository/timeslot/crud.go
package timeslotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keyscal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoTimeSlotRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoTimeSlotRepo constructs a MongoDB TimeSlotRepository over the
// "timeslots" collection of db.
func NewMongoTimeSlotRepo(db *mongo.Database, timeout time.Duration) *mongoTimeSlotRepo {
	return &mongoTimeSlotRepo{
		coll:    db.Collection("timeslots"),
		timeout: timeout,
	}
}

func (r *mongoTimeSlotRepo) Create(ctx context.Context, slot *models.TimeSlot) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	stamp(slot, time.Now())
	if _, err := r.coll.InsertOne(ctx, slot); err != nil {
		return fmt.Errorf("failed to insert timeslot: %w", err)
	}
	return nil
}

func (r *mongoTimeSlotRepo) InsertMany(ctx context.Context, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	now := time.Now()
	stored := make([]models.TimeSlot, len(slots))
	docs := make([]interface{}, len(slots))
	for i, slot := range slots {
		stamp(&slot, now)
		stored[i] = slot
		docs[i] = slot
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, fmt.Errorf("failed to insert timeslots: %w", err)
	}
	return stored, nil
}

func (r *mongoTimeSlotRepo) GetByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var slot models.TimeSlot
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) UpdateTimes(ctx context.Context, id, startTime, endTime string) (*models.TimeSlot, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"startTime": startTime, "endTime": endTime}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.TimeSlot
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update timeslot: %w", err)
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete timeslot: %w", err)
	}
	return nil
}

func (r *mongoTimeSlotRepo) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	return r.coll.Database().Client().Ping(ctx, nil)
}
