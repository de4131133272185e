package request

// StatusCategory groups status codes for display.
type StatusCategory string

const (
	StatusSuccess     StatusCategory = "success"
	StatusClientError StatusCategory = "client-error"
	StatusServerError StatusCategory = "server-error"
	StatusUnknown     StatusCategory = "unknown"
)

// CategoryOf maps a status code to its category. 0, 1xx and 3xx are unknown.
func CategoryOf(status int) StatusCategory {
	switch {
	case status >= 200 && status < 300:
		return StatusSuccess
	case status >= 400 && status < 500:
		return StatusClientError
	case status >= 500 && status < 600:
		return StatusServerError
	default:
		return StatusUnknown
	}
}
