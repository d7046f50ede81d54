package amqp

import (
	"encoding/json"
	"time"
)

// Operations recorded on the audit stream.
const (
	OpAdd     = "add"
	OpDelete  = "delete"
	OpPayment = "payment"
)

// Ledger kinds.
const (
	KindIncome  = "income"
	KindExpense = "expense"
	KindDebt    = "debt"
)

// LedgerEvent is published after every successful ledger mutation. It is
// intentionally small: the audit worker only records what changed, consumers
// needing the full record read it from storage.
type LedgerEvent struct {
	Kind      string    `json:"kind"`
	Op        string    `json:"op"`
	RecordID  string    `json:"record_id,omitempty"`
	Index     int       `json:"index,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(kind, op, recordID string) *LedgerEvent {
	return &LedgerEvent{
		Kind:      kind,
		Op:        op,
		RecordID:  recordID,
		Timestamp: time.Now(),
	}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
