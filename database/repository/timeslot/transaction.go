// File: database/repository/timeslot/transaction.go
package timeslotRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a MongoDB session transaction. The session
// travels in the context handed to fn, so fn must use that context for every
// call on repo. Requires a replica set or sharded deployment.
func (r *mongoTimeSlotRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TimeSlotRepository) error) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, r)
	})
	return err
}
