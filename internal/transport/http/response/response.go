package response

import "net/http"

// Resp is the envelope every endpoint answers with.
type Resp struct {
	Success bool     `json:"success"`
	Data    any      `json:"data"`
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}

// OK wraps data for a successful response.
func OK(data any, msg string) Resp {
	return Resp{Success: true, Data: data, Message: msg}
}

// Error builds a failure envelope. An empty title falls back to the status text.
func Error(status int, title string, msgs ...string) Resp {
	if title == "" {
		title = StatusTitle[status]
		if title == "" {
			title = http.StatusText(status)
		}
	}
	if len(msgs) == 0 {
		msgs = []string{title}
	}
	return Resp{Success: false, Errors: msgs, Message: title}
}
