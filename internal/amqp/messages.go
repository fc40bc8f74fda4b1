package amqp

import (
	"encoding/json"
	"time"

	"budgetbuddy/internal/services"
)

// TransactionEventMessage is one bank transaction event on the queue. The
// payload shape matches the HTTP ingestion entry point so upstream
// producers can publish the webhook body unchanged.
type TransactionEventMessage struct {
	DateTime string `json:"dateTime"`
	Merchant struct {
		Name     string `json:"name"`
		City     string `json:"city,omitempty"`
		Category string `json:"category,omitempty"`
	} `json:"merchant"`
	CentsAmount int64     `json:"centsAmount"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

func NewTransactionEventMessage(event services.IngestEvent) *TransactionEventMessage {
	msg := &TransactionEventMessage{
		DateTime:    event.DateTime,
		CentsAmount: event.CentsAmount,
		PublishedAt: time.Now(),
	}
	msg.Merchant.Name = event.MerchantName
	msg.Merchant.City = event.MerchantCity
	msg.Merchant.Category = event.MerchantCategory
	return msg
}

// Event converts the message into the ingestion service's input.
func (m *TransactionEventMessage) Event() services.IngestEvent {
	return services.IngestEvent{
		DateTime:         m.DateTime,
		MerchantName:     m.Merchant.Name,
		MerchantCity:     m.Merchant.City,
		MerchantCategory: m.Merchant.Category,
		CentsAmount:      m.CentsAmount,
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
