package dto

// IngestionWebhookRequest is the inbound notification from the external
// ingestion system.
type IngestionWebhookRequest struct {
	DocumentID uint   `json:"documentId"`
	Status     string `json:"status"`
}

type WebhookAck struct {
	Success bool `json:"success"`
}
