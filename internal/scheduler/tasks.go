package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskQuoteExpireDue = "quotes.expire_due"

// DefaultExpiryBatch bounds how many quotes a single sweep expires.
const DefaultExpiryBatch = 200

type QuoteExpireDuePayload struct {
	Limit int `json:"limit"`
}

func NewQuoteExpireDueTask(payload QuoteExpireDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuoteExpireDue, data), nil
}

func ParseQuoteExpireDuePayload(task *asynq.Task) (QuoteExpireDuePayload, error) {
	var payload QuoteExpireDuePayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return QuoteExpireDuePayload{}, err
	}
	return payload, nil
}
