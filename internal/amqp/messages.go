package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotSyncMessage asks the worker to refresh the local record
// snapshot from the upstream source. It carries only counts for
// logging; the worker re-fetches the full record set itself.
type SnapshotSyncMessage struct {
	Source       string    `json:"source"`
	UserCount    int       `json:"user_count"`
	InvoiceCount int       `json:"invoice_count"`
	FetchedAt    time.Time `json:"fetched_at"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewSnapshotSyncMessage creates a sync message for a fresh fetch
func NewSnapshotSyncMessage(sourceName string, userCount, invoiceCount int, fetchedAt time.Time) *SnapshotSyncMessage {
	return &SnapshotSyncMessage{
		Source:       sourceName,
		UserCount:    userCount,
		InvoiceCount: invoiceCount,
		FetchedAt:    fetchedAt,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func SnapshotSyncMessageFromJSON(data []byte) (*SnapshotSyncMessage, error) {
	var msg SnapshotSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
