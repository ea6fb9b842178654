package domain

import (
	"time"

	"github.com/google/uuid"
)

// Donation is a locally recorded receipt of a confirmed on-chain donation.
// Records are appended to the durable `donations` list after the transaction
// is mined and are never mutated or deleted by this service.
type Donation struct {
	ID           uuid.UUID `json:"id"`
	CharityID    string    `json:"charity_id"`
	CharityName  string    `json:"charity_name"`
	DonorAddress string    `json:"donor_address"`
	Amount       float64   `json:"amount"` // native token, decimal
	Timestamp    time.Time `json:"timestamp"`
	TxHash       string    `json:"tx_hash"`
}

// TransactionReceipt is the chain adapter's report of a mined transaction.
type TransactionReceipt struct {
	Status uint64 `json:"status"` // 1 = success
	Hash   string `json:"hash"`
}
