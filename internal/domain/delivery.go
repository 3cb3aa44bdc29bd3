package domain

// DeliveryResult is the outcome of a single send through the delivery gateway.
type DeliveryResult struct {
	Success   bool   `json:"success"`
	Provider  string `json:"provider"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
	Attempts  int    `json:"attempts"`
}

// BatchError records one failed recipient inside a batch send.
type BatchError struct {
	Subscriber string `json:"subscriber"`
	Reason     string `json:"reason"`
}

// BatchResult aggregates a sequential batch send. A single recipient
// failure never aborts the rest of the batch.
type BatchResult struct {
	Total      int          `json:"total"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Errors     []BatchError `json:"errors,omitempty"`
}
