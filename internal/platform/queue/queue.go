package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskRosterValidate = "roster:validate"

type RosterValidatePayload struct {
	RosterID       string `json:"rosterId"`
	OrganizationID string `json:"organizationId"`
}

// Client enqueues background validation tasks. A nil *Client disables
// enqueueing, which the roster service treats as "run synchronously".
type Client struct {
	inner *asynq.Client
}

func NewClient(addr, password string) *Client {
	if addr == "" {
		return nil
	}
	return &Client{inner: asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})}
}

func (c *Client) Enabled() bool {
	return c != nil
}

func (c *Client) EnqueueRosterValidation(payload RosterValidatePayload) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskRosterValidate, data, asynq.MaxRetry(3))
	_, err = c.inner.Enqueue(task)
	return err
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.inner.Close()
}
