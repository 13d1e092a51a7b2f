// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// ItemQueueName is the durable queue item activity events flow through.
const ItemQueueName = "item.activity"

// ItemEvent is published after a successful item mutation. It carries
// enough information for downstream consumers to log or trigger analytics
// without querying the primary database.
type ItemEvent struct {
	Action     string `json:"action"` // created | updated | deleted
	ItemID     uint64 `json:"item_id"`
	UserID     uint64 `json:"user_id"`
	Text       string `json:"text,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
