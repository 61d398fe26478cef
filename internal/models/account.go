package models

import (
	"github.com/shopspring/decimal"
)

type Account struct {
	ID       int64
	ClientID int64
	Balance  decimal.Decimal
}
