package mongo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// watchedCollections feed the snapshot. auth_users is left out.
var watchedCollections = []string{
	collClients, collDependents, collVenues, collSuppliers, collSlots, collPlans,
	collEnrollments, collPayments, collCosts, collQuotes, collInvoices, collSettings,
}

// ChangeNotifier turns a database change stream into a signal channel. Bursts
// of changes collapse into one pending signal.
type ChangeNotifier struct {
	db  *mongo.Database
	log zerolog.Logger
}

func NewChangeNotifier(db *mongo.Database, log zerolog.Logger) *ChangeNotifier {
	return &ChangeNotifier{db: db, log: log}
}

// Watch implements snapshot.ChangeNotifier. The channel is closed when the
// stream fails or ctx is done.
func (n *ChangeNotifier) Watch(ctx context.Context) (<-chan struct{}, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ns.coll": bson.M{"$in": watchedCollections}}}},
	}
	stream, err := n.db.Watch(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("open change stream: %w", err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer stream.Close(context.WithoutCancel(ctx))

		for stream.Next(ctx) {
			select {
			case out <- struct{}{}:
			default:
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			n.log.Warn().Err(err).Msg("change stream ended")
		}
	}()
	return out, nil
}
