// Package mongodb keeps the portal's document collections: newsletter
// subscriptions and account-opening requests.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	databaseName            = "BANCARATA"
	subscriptionsCollection = "SUSCRIPCIONES_BOLETIN"
	requestsCollection      = "SOLICITUDES_CUENTA"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials mongo and ensures the unique email index the subscription
// conflict handling depends on.
func Connect(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("cant connect to mongo. Err: %w", err)
	}

	db := client.Database(databaseName)

	_, err = db.Collection(subscriptionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("cant ensure subscription index. Err: %w", err)
	}

	return &Store{client: client, db: db}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Subscriptions() *SubscriptionRepo {
	return &SubscriptionRepo{coll: s.db.Collection(subscriptionsCollection)}
}

func (s *Store) AccountRequests() *AccountRequestRepo {
	return &AccountRequestRepo{coll: s.db.Collection(requestsCollection)}
}
