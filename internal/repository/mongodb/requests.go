package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/bancarata/bankportal/internal/models"
)

type AccountRequestRepo struct {
	coll *mongo.Collection
}

func (r *AccountRequestRepo) Create(ctx context.Context, req models.AccountRequest) (models.AccountRequest, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = models.RequestStatusPending
	req.RequestedAt = time.Now().UTC()
	req.ReviewedAt = nil

	_, err := r.coll.InsertOne(ctx, req)
	if err != nil {
		return req, fmt.Errorf("mongo error: %w", err)
	}

	return req, nil
}

func (r *AccountRequestRepo) HasPending(ctx context.Context, ineNumber string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"numero_ine": ineNumber,
		"estado":     models.RequestStatusPending,
	})
	if err != nil {
		return false, fmt.Errorf("mongo error: %w", err)
	}

	return count > 0, nil
}
