package logging

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// GenerateRunID creates an identifier for one pipewin process.
// Format: YYYYMMDD_HHMMSS_xxxx (timestamp + 4 random hex chars)
func GenerateRunID() string {
	return generateRunID(time.Now())
}

func generateRunID(now time.Time) string {
	random := make([]byte, 2)
	_, _ = rand.Read(random)
	return now.Format("20060102_150405") + "_" + hex.EncodeToString(random)
}

// ShortRunID returns the random suffix of a run id.
func ShortRunID(runID string) string {
	if len(runID) < 4 {
		return runID
	}
	return runID[len(runID)-4:]
}
