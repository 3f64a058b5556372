package domain

import "time"

// PhaseLog records one completed phase.
type PhaseLog struct {
	ID             string `json:"id"`
	Phase          Phase  `json:"phase"`
	PlannedMinutes int    `json:"plannedMinutes"`
	// WorkSessionNumber is the completed work-session count after this phase.
	WorkSessionNumber int       `json:"workSessionNumber"`
	CompletedAt       time.Time `json:"completedAt"`
}

// PhaseSummary aggregates completed phases by type.
type PhaseSummary struct {
	Phase        Phase `json:"phase"`
	Count        int   `json:"count"`
	TotalMinutes int   `json:"totalMinutes"`
}
