package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

// EnrollmentRepository implements ports.EnrollmentRepository.
type EnrollmentRepository struct {
	col *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) ports.EnrollmentRepository {
	return &EnrollmentRepository{col: db.Collection(collEnrollments)}
}

func (r *EnrollmentRepository) Insert(ctx context.Context, e domain.Enrollment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, enrollmentFromDomain(e)); err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status domain.EnrollmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEnrollmentNotFound
	}
	return nil
}

// PaymentRepository implements ports.PaymentRepository.
type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) ports.PaymentRepository {
	return &PaymentRepository{col: db.Collection(collPayments)}
}

func (r *PaymentRepository) Insert(ctx context.Context, p domain.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, paymentFromDomain(p)); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// CostRepository implements ports.CostRepository.
type CostRepository struct {
	col *mongo.Collection
}

func NewCostRepository(db *mongo.Database) ports.CostRepository {
	return &CostRepository{col: db.Collection(collCosts)}
}

func (r *CostRepository) Insert(ctx context.Context, c domain.OperationalCost) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, costFromDomain(c)); err != nil {
		return fmt.Errorf("insert cost: %w", err)
	}
	return nil
}
