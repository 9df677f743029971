package model

import "time"

// RunStatus represents the current state of an analysis run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusAnalyzing RunStatus = "analyzing"
	RunStatusFusing    RunStatus = "fusing"
	RunStatusComplete  RunStatus = "complete"
	RunStatusFailed    RunStatus = "failed"
)

// AnalysisRequest is the input to a single analysis run: selectors, raw
// extracted text, and best-effort extracted fields.
type AnalysisRequest struct {
	Context       AnalysisContext    `json:"context"`
	ExtractedText string             `json:"extracted_text"`
	Fields        map[string]float64 `json:"fields,omitempty"`
}

// Run represents one persisted analysis run.
type Run struct {
	ID        string         `json:"id"`
	Context   AnalysisContext `json:"context"`
	Status    RunStatus      `json:"status"`
	Decision  *FusedDecision `json:"decision,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// StageStatus represents the state of one pipeline stage.
type StageStatus string

const (
	StageStatusRunning  StageStatus = "running"
	StageStatusComplete StageStatus = "complete"
	StageStatusFailed   StageStatus = "failed"
	StageStatusFallback StageStatus = "fallback"
)

// StageResult records the outcome of one pipeline stage for audit.
type StageResult struct {
	Name     string         `json:"name"`
	Status   StageStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RunStage represents a stage row within a run.
type RunStage struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Name      string       `json:"name"`
	Status    StageStatus  `json:"status"`
	Result    *StageResult `json:"result,omitempty"`
	StartedAt time.Time    `json:"started_at"`
}
