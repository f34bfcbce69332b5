package websocket

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/clauselens/clauselens/internal/scoring"
)

// EventType represents the type of WebSocket event
type EventType string

const (
	// EventTypeClauseFlagged represents a Red/Yellow clause detection
	EventTypeClauseFlagged EventType = "clause_flagged"
	// EventTypeAnalysisStatus represents a document job status change
	EventTypeAnalysisStatus EventType = "analysis_status"
	// EventTypeSystemStatus represents a system status event
	EventTypeSystemStatus EventType = "system_status"
	// EventTypeConnection represents connection events
	EventTypeConnection EventType = "connection"
)

// Event represents a WebSocket event sent to clients
type Event struct {
	Type       EventType   `json:"type"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       interface{} `json:"data"`
	DocumentID string      `json:"document_id,omitempty"`
}

// ClauseFlaggedEvent is broadcast when the pipeline scores a clause into
// the Red or Yellow category.
type ClauseFlaggedEvent struct {
	DocumentID  string               `json:"document_id"`
	ClauseIndex int                  `json:"clause_index"`
	Score       float64              `json:"score"`
	Category    scoring.RiskCategory `json:"category"`
	ClauseType  string               `json:"clause_type"`
	Excerpt     string               `json:"excerpt"`
}

// AnalysisStatusEvent is broadcast on document job transitions.
type AnalysisStatusEvent struct {
	DocumentID   string  `json:"document_id"`
	Status       string  `json:"status"`
	ClauseCount  int     `json:"clause_count,omitempty"`
	FlaggedCount int     `json:"flagged_count,omitempty"`
	Error        string  `json:"error,omitempty"`
	DurationMS   float64 `json:"duration_ms,omitempty"`
}

// SystemStatusEvent represents system status information
type SystemStatusEvent struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	TotalDocuments   int64  `json:"total_documents"`
	TotalClauses     int64  `json:"total_clauses"`
	ConnectedClients int    `json:"connected_clients"`
}

// ConnectionEvent represents WebSocket connection events
type ConnectionEvent struct {
	Action    string `json:"action"` // "connected", "disconnected"
	ClientID  string `json:"client_id"`
	ClientIP  string `json:"client_ip"`
	UserAgent string `json:"user_agent,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ClientMessage represents messages sent from clients to server
type ClientMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SubscriptionRequest represents a client subscription request
type SubscriptionRequest struct {
	Events []EventType `json:"events"`
}

// Client represents a WebSocket client connection
type Client struct {
	ID           string
	Conn         *websocket.Conn
	Send         chan Event
	Subscription *SubscriptionRequest
	ConnectedAt  time.Time
	LastPing     time.Time
	IP           string
	UserAgent    string
}
