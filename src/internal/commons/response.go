package commons

type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// CodedErrorResponse is ErrorResponse with a machine readable code, e.g.
// "INSUFFICIENT_BALANCE".
func CodedErrorResponse[T any](code string, message string, errors ...string) Response[T] {
	resp := ErrorResponse[T](message, errors...)
	resp.Code = code
	return resp
}
