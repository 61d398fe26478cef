package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/bancarata/bankportal/internal/apperrors"
	"github.com/bancarata/bankportal/internal/models"
)

type SubscriptionRepo struct {
	coll *mongo.Collection
}

func (r *SubscriptionRepo) Subscribe(ctx context.Context, email string) (models.Subscription, error) {
	sub := models.Subscription{
		Email:        strings.ToLower(email),
		Status:       models.SubscriptionActive,
		SubscribedAt: time.Now().UTC(),
	}

	_, err := r.coll.InsertOne(ctx, sub)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sub, apperrors.ErrAlreadySubscribed
		}
		return sub, fmt.Errorf("mongo error: %w", err)
	}

	return sub, nil
}

func (r *SubscriptionRepo) IsSubscribed(ctx context.Context, email string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Err()

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	default:
		return false, fmt.Errorf("mongo error: %w", err)
	}
}
