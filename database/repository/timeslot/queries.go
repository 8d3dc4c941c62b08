// File: database/repository/timeslot/queries.go
package timeslotRepo

import (
	"context"
	"fmt"

	"keyscal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func mongoFilter(f Filter) bson.M {
	filter := bson.M{}
	switch {
	case f.Date != "" && f.Before != "":
		filter["date"] = bson.M{"$eq": f.Date, "$lt": f.Before}
	case f.Date != "":
		filter["date"] = f.Date
	case f.Before != "":
		filter["date"] = bson.M{"$lt": f.Before}
	}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.StartTime != "" {
		filter["startTime"] = f.StartTime
	}
	return filter
}

func (r *mongoTimeSlotRepo) Find(ctx context.Context, f Filter) ([]models.TimeSlot, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "startTime", Value: 1},
		{Key: "userId", Value: 1},
	})
	cursor, err := r.coll.Find(ctx, mongoFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []models.TimeSlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return slots, nil
}
