package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/officina/workshop-system/internal/core/domain"
)

// SnapshotRepository reads every collection the core works on. Documents are
// returned in natural order, which the reports rely on for stable output.
type SnapshotRepository struct {
	db *mongo.Database
}

func NewSnapshotRepository(db *mongo.Database) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Load implements snapshot.Loader.
func (r *SnapshotRepository) Load(ctx context.Context) (domain.Collections, error) {
	var c domain.Collections
	var err error

	if c.Clients, err = loadAll(ctx, r.db, collClients, clientDoc.toDomain); err != nil {
		return c, err
	}
	if c.Dependents, err = loadAll(ctx, r.db, collDependents, dependentDoc.toDomain); err != nil {
		return c, err
	}
	if c.Venues, err = loadAll(ctx, r.db, collVenues, venueDoc.toDomain); err != nil {
		return c, err
	}
	if c.Suppliers, err = loadAll(ctx, r.db, collSuppliers, supplierDoc.toDomain); err != nil {
		return c, err
	}
	if c.Slots, err = loadAll(ctx, r.db, collSlots, slotDoc.toDomain); err != nil {
		return c, err
	}
	if c.Plans, err = loadAll(ctx, r.db, collPlans, planDoc.toDomain); err != nil {
		return c, err
	}
	if c.Enrollments, err = loadAll(ctx, r.db, collEnrollments, enrollmentDoc.toDomain); err != nil {
		return c, err
	}
	if c.Payments, err = loadAll(ctx, r.db, collPayments, paymentDoc.toDomain); err != nil {
		return c, err
	}
	if c.Costs, err = loadAll(ctx, r.db, collCosts, costDoc.toDomain); err != nil {
		return c, err
	}
	if c.Quotes, err = loadAll(ctx, r.db, collQuotes, quoteDoc.toDomain); err != nil {
		return c, err
	}
	if c.Invoices, err = loadAll(ctx, r.db, collInvoices, invoiceDoc.toDomain); err != nil {
		return c, err
	}
	if c.Company, err = r.company(ctx); err != nil {
		return c, err
	}
	return c, nil
}

// company returns nil when the profile was never saved.
func (r *SnapshotRepository) company(ctx context.Context) (*domain.CompanyProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d companyDoc
	err := r.db.Collection(collSettings).FindOne(ctx, bson.M{"_id": companyProfileID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("load company profile: %w", err)
	}
	profile := d.toDomain()
	return &profile, nil
}

func loadAll[D any, T any](ctx context.Context, db *mongo.Database, name string, conv func(D) T) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := db.Collection(name).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	var docs []D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return mapAll(docs, conv), nil
}
