package mqtt

import (
	"encoding/json"
	"time"
)

// Status values published on the status topic.
const (
	statusOnline  = "online"
	statusOffline = "offline"

	reasonShutdown   = "graceful_shutdown"
	reasonUnexpected = "unexpected_disconnect"
)

// statusMessage is the retained payload on the status topic.
type statusMessage struct {
	Status    string `json:"status"`
	ClientID  string `json:"client_id"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

// statusPayload renders a status message stamped with the current time.
func statusPayload(status, clientID, reason string) []byte {
	data, _ := json.Marshal(statusMessage{
		Status:    status,
		ClientID:  clientID,
		Reason:    reason,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return data
}
