package handler

import (
	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

func toAppendLogInput(jobID string, req appendLogRequest) ports.AppendLogInput {
	return ports.AppendLogInput{
		JobID:         jobID,
		LogID:         req.ID,
		StageName:     req.StageName,
		WorkerName:    req.WorkerName,
		ProofPhotoURL: req.ProofPhotoURL,
		Timestamp:     req.Timestamp.Time,
	}
}

func toJobPatch(req updateJobRequest) domain.JobPatch {
	patch := domain.JobPatch{CurrentStage: req.CurrentStage}
	if req.History == nil {
		return patch
	}
	patch.History = make([]domain.JobLog, 0, len(req.History))
	for _, h := range req.History {
		patch.History = append(patch.History, domain.JobLog{
			ID:            h.ID,
			JobID:         h.JobID,
			StageName:     h.StageName,
			WorkerName:    h.WorkerName,
			ProofPhotoURL: h.ProofPhotoURL,
			Timestamp:     h.Timestamp.Time,
		})
	}
	return patch
}
