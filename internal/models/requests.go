package models

import "github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/intervention"

// ActionRequest is the POST /sessions/:id/actions payload.
// timestamp is optional; when absent the server assigns one.
type ActionRequest struct {
	Type      string  `json:"type"`
	Target    string  `json:"target,omitempty"`
	Subtype   string  `json:"subtype,omitempty"`
	RiskLevel float64 `json:"risk_level,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// InputRequest is the POST /sessions/:id/inputs payload.
type InputRequest struct {
	Type         string     `json:"type"`
	Data         *InputData `json:"data,omitempty"`
	ResponseTime float64    `json:"responseTime,omitempty"`
	Timestamp    int64      `json:"timestamp,omitempty"`
}

// InputData carries movement deltas for movement inputs.
type InputData struct {
	DeltaX float64 `json:"deltaX"`
	DeltaY float64 `json:"deltaY"`
}

// CombatRequest is the POST /sessions/:id/combat payload.
type CombatRequest struct {
	Result         string  `json:"result"`
	HealthLost     float64 `json:"healthLost"`
	TimeToComplete float64 `json:"timeToComplete"`
	AverageTime    float64 `json:"averageTime"`
	Timestamp      int64   `json:"timestamp,omitempty"`
}

// ActivateRequest is the POST /sessions/:id/interventions payload, sent by
// the orchestrator when a frustration score crosses its trigger.
type ActivateRequest struct {
	FrustrationLevel float64                    `json:"frustration_level"`
	PlayerState      string                     `json:"player_state,omitempty"`
	CombatContext    intervention.CombatContext `json:"combat_context"`
}

// RecordedResponse acknowledges a fire-and-forget ingestion call.
type RecordedResponse struct {
	Recorded bool `json:"recorded"`
}
