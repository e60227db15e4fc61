package server

// ProcessImageRequest is the body of a process_image call.
type ProcessImageRequest struct {
	Image string `json:"image" validate:"required,base64"`
}

// ErrorResponse is returned when a photo cannot be read.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failure.
type ErrorBody struct {
	Message string `json:"message"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Templates int    `json:"templates"`
	Version   string `json:"version"`
}
