package domain

import "time"

// StatusChangedEvent is published after every successful status transition.
type StatusChangedEvent struct {
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entityID"`
	CompanyID  string    `json:"companyID"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Reason     string    `json:"reason,omitempty"`
	ActorID    string    `json:"actorID"`
	OccurredAt time.Time `json:"occurredAt"`
}
