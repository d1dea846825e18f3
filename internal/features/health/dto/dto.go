package dto

// MessageResponse is the catalog root payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse is the diagnosis root payload.
type StatusResponse struct {
	Status string `json:"status"`
}

type ReadyResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}
