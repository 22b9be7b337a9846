package domain

import "time"

// DefaultStage is the stage of a job whose history is still empty.
const DefaultStage = "Start"

// JobLog records a single stage transition on a job. Entries live inside the
// owning job document and are never edited once appended.
type JobLog struct {
	ID            string    `json:"id" bson:"id"`
	JobID         string    `json:"jobId" bson:"jobId"`
	StageName     string    `json:"stageName" bson:"stageName"`
	WorkerName    string    `json:"workerName" bson:"workerName"`
	ProofPhotoURL string    `json:"proofPhotoUrl,omitempty" bson:"proofPhotoUrl,omitempty"`
	Timestamp     time.Time `json:"timestamp" bson:"timestamp"`
}

// Job is the production job aggregate root. History is append-only and its
// order is the chronological order of the transitions.
type Job struct {
	ID             string    `json:"id" bson:"_id"`
	DesignImageURL string    `json:"designImageUrl,omitempty" bson:"designImageUrl,omitempty"`
	Priority       string    `json:"priority" bson:"priority"`
	CurrentStage   string    `json:"currentStage" bson:"currentStage"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	History        []JobLog  `json:"history" bson:"history"`
}

// DeriveStage returns the stage implied by the history: the stage of the last
// entry, or DefaultStage when nothing has been logged.
func (j *Job) DeriveStage() string {
	if len(j.History) == 0 {
		return DefaultStage
	}
	return j.History[len(j.History)-1].StageName
}

// FindLog looks up a history entry by id.
func (j *Job) FindLog(id string) (JobLog, bool) {
	for _, l := range j.History {
		if l.ID == id {
			return l, true
		}
	}
	return JobLog{}, false
}

// HasLog reports whether an entry with the given id is already in the history.
func (j *Job) HasLog(id string) bool {
	_, ok := j.FindLog(id)
	return ok
}

// NewEntries filters incoming down to the entries not yet present in the
// history, keeping their given order. An id repeated inside incoming is only
// taken the first time.
func (j *Job) NewEntries(incoming []JobLog) []JobLog {
	seen := make(map[string]struct{}, len(j.History)+len(incoming))
	for _, l := range j.History {
		seen[l.ID] = struct{}{}
	}

	var fresh []JobLog
	for _, l := range incoming {
		if _, ok := seen[l.ID]; ok {
			continue
		}
		seen[l.ID] = struct{}{}
		fresh = append(fresh, l)
	}
	return fresh
}

// Append adds entries to the end of the history and moves CurrentStage to the
// stage of the last one.
func (j *Job) Append(entries ...JobLog) {
	if len(entries) == 0 {
		return
	}
	j.History = append(j.History, entries...)
	j.CurrentStage = j.DeriveStage()
}

// JobPatch is the set of fields a job update may carry. A nil CurrentStage
// was not supplied; a nil History was not supplied either, while an empty one
// was sent as [] and still pins the stage to the stored history.
type JobPatch struct {
	CurrentStage *string
	History      []JobLog
}
