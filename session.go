package jobsh

import (
	"os"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	StartTime time.Time
	EndTime   time.Time
	UserID    int
	UserName  string
	MachineID string
	SessionID string
}

// NewSession initializes a new session with current environmental data.
func NewSession() *Session {
	hostname, _ := os.Hostname()
	return &Session{
		StartTime: time.Now(),
		UserID:    os.Getuid(),
		UserName:  os.Getenv("USER"),
		MachineID: hostname,
		SessionID: generateSessionID(),
	}
}

// generateSessionID generates a UUID for use as a unique session ID.
func generateSessionID() string {
	return uuid.New().String()
}
