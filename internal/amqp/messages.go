package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	OpCreate = "create"
	OpDelete = "delete"
)

// LedgerSyncMessage tells the export worker that a transaction changed.
// It carries only the ID and operation; the worker fetches the full record
// from storage, so stale payloads cannot overwrite newer data.
type LedgerSyncMessage struct {
	MessageID     string    `json:"message_id"`
	TransactionID int64     `json:"transaction_id"`
	Op            string    `json:"op"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerSyncMessage creates a sync message for one transaction.
func NewLedgerSyncMessage(transactionID int64, op string) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		MessageID:     uuid.NewString(),
		TransactionID: transactionID,
		Op:            op,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerSyncMessageFromJSON creates a message from JSON bytes.
func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
