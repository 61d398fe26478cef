// Package memdocs is an in-memory document store. It backs tests and
// deployments that run without mongo, behind the same interfaces.
package memdocs

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bancarata/bankportal/internal/apperrors"
	"github.com/bancarata/bankportal/internal/models"
)

type Store struct {
	mu            sync.RWMutex
	subscriptions map[string]models.Subscription
	requests      map[string]models.AccountRequest
}

func NewStore() *Store {
	return &Store{
		subscriptions: make(map[string]models.Subscription),
		requests:      make(map[string]models.AccountRequest),
	}
}

func (s *Store) Subscriptions() *SubscriptionRepo {
	return &SubscriptionRepo{store: s}
}

func (s *Store) AccountRequests() *AccountRequestRepo {
	return &AccountRequestRepo{store: s}
}

type SubscriptionRepo struct {
	store *Store
}

func (r *SubscriptionRepo) Subscribe(_ context.Context, email string) (models.Subscription, error) {
	email = strings.ToLower(email)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.subscriptions[email]; ok {
		return models.Subscription{}, apperrors.ErrAlreadySubscribed
	}

	sub := models.Subscription{
		Email:        email,
		Status:       models.SubscriptionActive,
		SubscribedAt: time.Now().UTC(),
	}
	r.store.subscriptions[email] = sub

	return sub, nil
}

func (r *SubscriptionRepo) IsSubscribed(_ context.Context, email string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.subscriptions[strings.ToLower(email)]
	return ok, nil
}

type AccountRequestRepo struct {
	store *Store
}

func (r *AccountRequestRepo) Create(_ context.Context, req models.AccountRequest) (models.AccountRequest, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = models.RequestStatusPending
	req.RequestedAt = time.Now().UTC()
	req.ReviewedAt = nil

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.requests[req.ID] = req

	return req, nil
}

func (r *AccountRequestRepo) HasPending(_ context.Context, ineNumber string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, req := range r.store.requests {
		if req.INENumber == ineNumber && req.Status == models.RequestStatusPending {
			return true, nil
		}
	}

	return false, nil
}
