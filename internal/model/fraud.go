package model

// SignalSeverity grades an individual fraud signal.
type SignalSeverity string

const (
	SeverityLow    SignalSeverity = "low"
	SeverityMedium SignalSeverity = "medium"
	SeverityHigh   SignalSeverity = "high"
)

// FraudSignal is a single triggered fraud heuristic.
type FraudSignal struct {
	Name     string         `json:"name"`
	Severity SignalSeverity `json:"severity"`
	Evidence string         `json:"evidence"`
}

// FraudAssessment is the combined result of all fraud heuristics. Signals
// are advisory input to fusion; none of them fails a request on its own.
type FraudAssessment struct {
	Score                  int           `json:"score"` // 0-100
	TriggeredSignals       []FraudSignal `json:"triggered_signals"`
	AuthenticityConfidence int           `json:"authenticity_confidence"` // 100 - Score
	DocumentQuality        int           `json:"document_quality"`        // 0-100 completeness score
}

// Veto reports whether the fraud score is high enough to force the final
// risk tier to HIGH regardless of model outputs.
func (a FraudAssessment) Veto(threshold int) bool {
	return a.Score >= threshold
}
