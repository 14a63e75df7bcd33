package api

type (
	// MemeRequest contains the raw user text describing frustrations
	MemeRequest struct {
		Text string `json:"text"`
	}

	// MemeResponse is returned when a pipeline run produces an artifact
	MemeResponse struct {
		RunID    RunID  `json:"run_id"`
		ImageURL string `json:"image_url"`
		PageURL  string `json:"page_url"`
	}

	// RunFailureResponse names the failing stage and a human-readable
	// reason when a pipeline run does not complete
	RunFailureResponse struct {
		RunID      RunID         `json:"run_id"`
		FailedStep Name          `json:"failed_step"`
		Reason     FailureReason `json:"reason"`
		Detail     string        `json:"detail,omitempty"`
		Violations []Violation   `json:"violations,omitempty"`
	}

	// HealthResponse provides service health information
	HealthResponse struct {
		Service string `json:"service"`
		Status  string `json:"status"`
	}

	// ErrorResponse contains error details for failed requests
	ErrorResponse struct {
		Error  string `json:"error"`
		Status int    `json:"status,omitempty"`
	}
)
