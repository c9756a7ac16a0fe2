package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

// CascadeRepository deletes every record of a plan inside one transaction.
// Transactions need a replica set; a standalone server rejects them.
type CascadeRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewCascadeRepository(client *mongo.Client, db *mongo.Database) ports.CascadeRepository {
	return &CascadeRepository{client: client, db: db}
}

func (r *CascadeRepository) Apply(ctx context.Context, plan domain.CascadePlan) error {
	steps := cascadeSteps(plan)
	if len(steps) == 0 {
		return nil
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("cascade: start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, s := range steps {
			if _, err := r.db.Collection(s.collection).DeleteMany(sc, bson.M{"_id": bson.M{"$in": s.ids}}); err != nil {
				return nil, fmt.Errorf("delete %s: %w", s.collection, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("cascade %s %s: %w", plan.Kind, plan.RootID, err)
	}
	return nil
}

type cascadeStep struct {
	collection string
	ids        []string
}

// cascadeSteps orders deletions leaves first.
func cascadeSteps(plan domain.CascadePlan) []cascadeStep {
	all := []cascadeStep{
		{collEnrollments, plan.EnrollmentIDs},
		{collDependents, plan.DependentIDs},
		{collClients, plan.ClientIDs},
		{collVenues, plan.VenueIDs},
		{collSuppliers, plan.SupplierIDs},
	}
	steps := all[:0]
	for _, s := range all {
		if len(s.ids) > 0 {
			steps = append(steps, s)
		}
	}
	return steps
}
