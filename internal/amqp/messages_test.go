package amqp

import (
	"testing"
	"time"
)

func TestLedgerEventJSONRoundTrip(t *testing.T) {
	e := NewLedgerEvent(KindDebt, OpPayment, "d-123")
	e.Amount = "250.00"

	body, err := e.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := LedgerEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Kind != KindDebt || got.Op != OpPayment || got.RecordID != "d-123" || got.Amount != "250.00" {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.Timestamp.IsZero() || time.Since(got.Timestamp) > time.Minute {
		t.Fatalf("unexpected timestamp: %v", got.Timestamp)
	}
}

func TestLedgerEventFromJSONMalformed(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
