package responses

// Success is the body of every 2xx JSON response.
type Success struct {
	Data any `json:"data"`
}

// Failure is the body of every non-2xx JSON response.
type Failure struct {
	Error Problem `json:"error"`
}

type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
