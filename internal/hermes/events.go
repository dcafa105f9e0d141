package hermes

import "time"

type SessionStartedEvent struct {
	SessionID string    `json:"session_id"`
	Scenarios int       `json:"scenarios"`
	Timestamp time.Time `json:"timestamp"`
}

type AnswerRecordedEvent struct {
	SessionID   string    `json:"session_id"`
	Scenario    int       `json:"scenario"`
	Side        string    `json:"side"`
	Multiplier  float64   `json:"multiplier"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type MatchSummary struct {
	Name       string  `json:"name"`
	Score      float64 `json:"match_score"`
	Percentage float64 `json:"percentage"`
}

type SessionCompletedEvent struct {
	SessionID   string             `json:"session_id"`
	Preferences map[string]float64 `json:"preferences"`
	TopMatches  []MatchSummary     `json:"top_matches,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
}

type SessionResetEvent struct {
	SessionID      string    `json:"session_id"`
	AnswersCleared int       `json:"answers_cleared"`
	Timestamp      time.Time `json:"timestamp"`
}
