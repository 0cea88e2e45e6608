package dto

// Response is the uniform JSON envelope returned by every endpoint,
// success or failure.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// OK builds a success envelope.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// OKWithMeta builds a success envelope with pagination metadata.
func OKWithMeta(message string, data, meta any) Response {
	return Response{Success: true, Message: message, Data: data, Meta: meta}
}

// Fail builds a failure envelope.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}
