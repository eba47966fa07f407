package task

import (
	"encoding/json"
	"fmt"

	"github.com/fhuszti/medias-pipeline-go/internal/model"
	"github.com/hibiken/asynq"
)

const (
	TypeProcessMedia = "media:process"
	TypePoisonMedia  = "media:poison"
	TypeSweepJobs    = "media:sweep"
)

const (
	QueueProcessing  = "media-processing"
	QueuePoison      = "media-processing-poison"
	QueueMaintenance = "media-maintenance"
)

// PoisonPayload is what ends up in the dead-letter queue.
type PoisonPayload struct {
	model.QueueMessage
	FinalError string `json:"final_error"`
}

// NewProcessMediaTask creates an Asynq task for processing one job attempt.
func NewProcessMediaTask(msg model.QueueMessage) (*asynq.Task, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("could not marshal process-media payload: %w", err)
	}
	return asynq.NewTask(TypeProcessMedia, data), nil
}

// ParseProcessMediaPayload parses and validates the task payload.
func ParseProcessMediaPayload(t *asynq.Task) (model.QueueMessage, error) {
	var msg model.QueueMessage
	if err := json.Unmarshal(t.Payload(), &msg); err != nil {
		return model.QueueMessage{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return model.QueueMessage{}, err
	}
	return msg, nil
}

func NewPoisonMediaTask(msg model.QueueMessage, finalError string) (*asynq.Task, error) {
	data, err := json.Marshal(PoisonPayload{QueueMessage: msg, FinalError: finalError})
	if err != nil {
		return nil, fmt.Errorf("could not marshal poison payload: %w", err)
	}
	return asynq.NewTask(TypePoisonMedia, data), nil
}

func ParsePoisonPayload(data []byte) (PoisonPayload, error) {
	var p PoisonPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return PoisonPayload{}, fmt.Errorf("could not unmarshal poison payload: %w", err)
	}
	return p, nil
}

// NewSweepJobsTask creates the periodic cleanup task; it carries no payload.
func NewSweepJobsTask() *asynq.Task {
	return asynq.NewTask(TypeSweepJobs, nil)
}

// processTaskID is unique per attempt of one job record, so a name swept and
// ingested again does not collide with its previous attempts.
func processTaskID(msg model.QueueMessage) string {
	return fmt.Sprintf("%s:%d:%d", msg.Name, msg.CreatedAt.UnixMilli(), msg.RetryCount)
}
