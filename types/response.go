package types

type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Token   string      `json:"token,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the JSON shape for failed requests. Internal error
// details are logged, never placed in Message.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
