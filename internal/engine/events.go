package engine

import "time"

// EventType identifies a progress event emitted during a stage run.
type EventType string

const (
	EventStageStart       EventType = "stage_start"
	EventAgentStart       EventType = "agent_start"
	EventAgentComplete    EventType = "agent_complete"
	EventAgentError       EventType = "agent_error"
	EventConflictStart    EventType = "conflict_start"
	EventConflictComplete EventType = "conflict_complete"
	EventStageComplete    EventType = "stage_complete"
)

// Event is a single progress update streamed to clients while a stage runs.
type Event struct {
	Type      EventType              `json:"type"`
	AgentID   string                 `json:"agent_id,omitempty"`
	AgentName string                 `json:"agent_name,omitempty"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

func newEvent(t EventType, data map[string]interface{}) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now().UTC()}
}

func newAgentEvent(t EventType, agentID, agentName string, data map[string]interface{}) Event {
	return Event{Type: t, AgentID: agentID, AgentName: agentName, Data: data, Timestamp: time.Now().UTC()}
}
