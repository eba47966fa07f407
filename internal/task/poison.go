package task

import (
	"fmt"

	"github.com/hibiken/asynq"
)

type asynqInspector interface {
	ListPendingTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	DeleteTask(queue, id string) error
	Close() error
}

// PoisonEntry is one parked job as found in the dead-letter queue.
type PoisonEntry struct {
	TaskID string `json:"task_id"`
	PoisonPayload
}

// PoisonInspector reads the dead-letter queue for manual triage.
type PoisonInspector struct {
	inspector asynqInspector
}

func NewPoisonInspector(addr, password string) *PoisonInspector {
	return &PoisonInspector{inspector: asynq.NewInspector(asynq.RedisClientOpt{Addr: addr, Password: password})}
}

func (p *PoisonInspector) Close() error {
	return p.inspector.Close()
}

// List returns up to limit parked jobs, oldest first. Entries whose payload
// cannot be decoded are reported with only their task id set.
func (p *PoisonInspector) List(limit int) ([]PoisonEntry, error) {
	infos, err := p.inspector.ListPendingTasks(QueuePoison, asynq.PageSize(limit))
	if err != nil {
		return nil, fmt.Errorf("could not list %s: %w", QueuePoison, err)
	}
	entries := make([]PoisonEntry, 0, len(infos))
	for _, info := range infos {
		e := PoisonEntry{TaskID: info.ID}
		if payload, err := ParsePoisonPayload(info.Payload); err == nil {
			e.PoisonPayload = payload
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Discard removes a parked job once it has been dealt with.
func (p *PoisonInspector) Discard(taskID string) error {
	if err := p.inspector.DeleteTask(QueuePoison, taskID); err != nil {
		return fmt.Errorf("could not delete task %s from %s: %w", taskID, QueuePoison, err)
	}
	return nil
}
