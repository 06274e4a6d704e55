package telemetry

// Event kind buffers are keyed per session as dda:{kind}:{sessionID}.
const (
	keyActions = "dda:actions:"
	keyInputs  = "dda:inputs:"
	keyCombat  = "dda:combat:"
)

// Buffer caps and shared TTL. Trimming always drops the oldest entries first.
const (
	actionCap = 1000
	inputCap  = 2000
	combatCap = 100
)

// ActionEvent is one discrete gameplay action (attack, retry, quit, ...).
// ID and Timestamp are server-assigned unless the caller supplies them;
// timestamps are milliseconds.
type ActionEvent struct {
	ID        string  `json:"id,omitempty"`
	Type      string  `json:"type"`
	Target    string  `json:"target,omitempty"`
	Subtype   string  `json:"subtype,omitempty"`
	RiskLevel float64 `json:"risk_level,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// InputEvent is one raw input sample (click, movement, keypress).
type InputEvent struct {
	ID           string     `json:"id,omitempty"`
	Type         string     `json:"type"`
	Data         *InputData `json:"data,omitempty"`
	ResponseTime float64    `json:"responseTime,omitempty"`
	Timestamp    int64      `json:"timestamp"`
}

// InputData carries movement deltas for movement-type inputs.
type InputData struct {
	DeltaX float64 `json:"deltaX"`
	DeltaY float64 `json:"deltaY"`
}

// Combat result values.
const (
	ResultVictory = "victory"
	ResultDeath   = "death"
)

// CombatResult is the outcome of one combat encounter.
type CombatResult struct {
	ID             string  `json:"id,omitempty"`
	Result         string  `json:"result"`
	HealthLost     float64 `json:"healthLost"`
	TimeToComplete float64 `json:"timeToComplete"`
	AverageTime    float64 `json:"averageTime"`
	Timestamp      int64   `json:"timestamp"`
}
