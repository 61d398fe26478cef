package transfer

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bancarata/bankportal/internal/models"
)

// Fixed descriptive receipt fields
const (
	cardBrand       = "VISA"
	signatureMethod = "PIN"
	successMessage  = "Pago aprobado"
)

// Receipt is the canonical transaction confirmation. Field names follow the
// bank's published wire contract.
type Receipt struct {
	CreatedUTC        string  `json:"CreadaUTC"`
	TransactionID     string  `json:"IdTransaccion"`
	Type              string  `json:"TipoTransaccion"`
	Amount            float64 `json:"MontoTransaccion"`
	CardBrand         string  `json:"MarcaTarjeta"`
	MaskedCardNumber  string  `json:"NumeroTarjeta"`
	AuthorizationCode string  `json:"NumeroAutorizacion"`
	StateName         string  `json:"NombreEstado"`
	SignatureMethod   string  `json:"Firma"`
	Message           string  `json:"Mensaje"`
}

// buildReceipt shapes the response from a recorded ledger row. It performs no
// validation and cannot fail.
func buildReceipt(t models.Transaction, destCardNumber string) Receipt {
	amount, _ := t.Amount.Float64()

	return Receipt{
		CreatedUTC:        t.CreatedAt.UTC().Format(time.RFC3339),
		TransactionID:     formatTransactionID(t.ID),
		Type:              t.Type,
		Amount:            amount,
		CardBrand:         cardBrand,
		MaskedCardNumber:  models.MaskNumber(destCardNumber),
		AuthorizationCode: t.AuthorizationCode,
		StateName:         models.StateCompleted,
		SignatureMethod:   signatureMethod,
		Message:           successMessage,
	}
}

// formatTransactionID renders the ledger sequence as "TRX-000001"
func formatTransactionID(id int64) string {
	return fmt.Sprintf("TRX-%06d", id)
}

// newAuthCode generates a synthetic six-digit authorization code
func newAuthCode() string {
	return fmt.Sprintf("AUTH-%06d", 100000+rand.IntN(900000))
}
