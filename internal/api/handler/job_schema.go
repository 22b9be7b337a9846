package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goldline/production-tracker/internal/core/domain"
)

// --- Request / Response types ---

type createJobRequest struct {
	Priority       string `json:"priority" validate:"required"`
	CurrentStage   string `json:"currentStage"`
	DesignImageURL string `json:"designImageUrl"`
}

type appendLogRequest struct {
	ID            string    `json:"id"`
	StageName     string    `json:"stageName" validate:"required"`
	WorkerName    string    `json:"workerName" validate:"required"`
	ProofPhotoURL string    `json:"proofPhotoUrl"`
	Timestamp     looseTime `json:"timestamp"`
}

type jobLogRequest struct {
	ID            string    `json:"id"`
	JobID         string    `json:"jobId"`
	StageName     string    `json:"stageName"`
	WorkerName    string    `json:"workerName"`
	ProofPhotoURL string    `json:"proofPhotoUrl"`
	Timestamp     looseTime `json:"timestamp"`
}

// updateJobRequest is decoded strictly: any other key is rejected.
type updateJobRequest struct {
	CurrentStage *string         `json:"currentStage"`
	History      []jobLogRequest `json:"history"`
}

type appendLogResponse struct {
	Status string         `json:"status"`
	Log    *domain.JobLog `json:"log"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// looseTime is an RFC 3339 timestamp that may also be "" or null, both of
// which leave it zero. Offsetless values are read as UTC.
type looseTime struct {
	time.Time
}

func (t *looseTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string")
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		parsed, err = time.ParseInLocation("2006-01-02T15:04:05.999999999", raw, time.UTC)
		if err != nil {
			return fmt.Errorf("timestamp %q is not RFC 3339", raw)
		}
	}
	t.Time = parsed.UTC()
	return nil
}
