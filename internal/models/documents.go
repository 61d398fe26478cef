package models

import (
	"time"
)

const (
	RequestStatusPending  = "PENDIENTE"
	RequestStatusReviewed = "REVISADA"

	SubscriptionActive = "ACTIVO"
)

// Subscription is a newsletter signup kept in the document store.
type Subscription struct {
	Email        string     `bson:"email"`
	Status       string     `bson:"estado"`
	SubscribedAt time.Time  `bson:"fecha_suscripcion"`
	LastMailing  *time.Time `bson:"ultimo_envio"`
}

// AccountRequest is an account-opening application. INENumber is the national
// id the applicant presented; at most one pending request per INE is allowed.
type AccountRequest struct {
	ID          string     `bson:"_id"`
	FullName    string     `bson:"nombre_completo"`
	INENumber   string     `bson:"numero_ine"`
	Email       string     `bson:"email"`
	Phone       string     `bson:"telefono"`
	Status      string     `bson:"estado"`
	RequestedAt time.Time  `bson:"fecha_solicitud"`
	ReviewedAt  *time.Time `bson:"fecha_revision"`
}
