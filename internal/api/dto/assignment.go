package dto

// Assignment as submitted for preview. Date, status and assignment_id are optional.
type AssignmentRequest struct {
	AssignmentID string   `json:"assignment_id"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	TruckID      string   `json:"truck_id"`
	DriverID     string   `json:"driver_id"`
	HelperIDs    []string `json:"helper_ids"`
	Status       string   `json:"status"`
	ProjectID    string   `json:"project_id"`
	Customer     string   `json:"customer"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
}

type PreviewRequest struct {
	Date      string              `json:"date"`
	Candidate AssignmentRequest   `json:"candidate"`
	Pending   []AssignmentRequest `json:"pending"`
}
