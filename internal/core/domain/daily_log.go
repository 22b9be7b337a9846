package domain

import "time"

// DailyLogType is the kind of attendance or work event a worker reports.
type DailyLogType string

const (
	DailyLogStart        DailyLogType = "Start"
	DailyLogEnd          DailyLogType = "End"
	DailyLogStartWork    DailyLogType = "StartWork"
	DailyLogCompleteWork DailyLogType = "CompleteWork"
)

// Valid reports whether t is one of the recognised log types.
func (t DailyLogType) Valid() bool {
	switch t {
	case DailyLogStart, DailyLogEnd, DailyLogStartWork, DailyLogCompleteWork:
		return true
	}
	return false
}

// DailyLog is an immutable attendance/work record.
type DailyLog struct {
	ID         string       `json:"id" bson:"_id"`
	WorkerName string       `json:"workerName" bson:"workerName"`
	Type       DailyLogType `json:"type" bson:"type"`
	PhotoURL   string       `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	Timestamp  time.Time    `json:"timestamp" bson:"timestamp"`
}
