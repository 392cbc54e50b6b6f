package dto

type ConflictResponse struct {
	Kind         string `json:"kind"`
	Severity     string `json:"severity"`
	Message      string `json:"message"`
	AssignmentID string `json:"assignment_id"`
	TruckID      string `json:"truck_id,omitempty"`
	WorkerID     string `json:"worker_id,omitempty"`
}

type SummaryResponse struct {
	Total    int            `json:"total"`
	Critical int            `json:"critical"`
	Warning  int            `json:"warning"`
	ByKind   map[string]int `json:"by_kind"`
}

type ConflictListResponse struct {
	Date      string             `json:"date"`
	Conflicts []ConflictResponse `json:"conflicts"`
	Summary   SummaryResponse    `json:"summary"`
}
