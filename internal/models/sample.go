package models

import "time"

// Sample is one stored sensor reading. Timestamp is assigned by the server at
// ingestion and ID follows insertion order.
type Sample struct {
	ID        int64     `json:"id"`
	PM02      int       `json:"pm02"`
	RCO2      int       `json:"rco2"`
	ATMP      float64   `json:"atmp"`
	RHUM      int       `json:"rhum"`
	WiFi      int       `json:"wifi"`
	Timestamp time.Time `json:"timestamp"`
}

// Ack is returned to the sensor once a sample has been stored.
type Ack struct {
	Message string `json:"message"`
}
