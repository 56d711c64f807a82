// Package result holds the success/failure envelope returned by domain services.
//
// Expected business outcomes (not found, already exists, nothing saved) travel
// inside a Result. Infrastructure faults travel as a plain error next to it.
package result

// Result is either a success carrying Data and a SuccessCode, or a failure
// carrying an ErrorCode and the zero value of T.
type Result[T any] struct {
	Succeeded   bool        `json:"succeeded"`
	SuccessCode SuccessCode `json:"success_code,omitempty"`
	ErrorCode   ErrorCode   `json:"error_code,omitempty"`
	Data        T           `json:"data"`
}

// Success builds a successful result.
func Success[T any](code SuccessCode, data T) Result[T] {
	return Result[T]{
		Succeeded:   true,
		SuccessCode: code,
		Data:        data,
	}
}

// Failure builds a failed result without payload.
func Failure[T any](code ErrorCode) Result[T] {
	return Result[T]{
		Succeeded: false,
		ErrorCode: code,
	}
}

// HTTPStatus returns the status code matching the outcome.
func (r Result[T]) HTTPStatus() int {
	if r.Succeeded {
		return r.SuccessCode.HTTPStatus()
	}
	return r.ErrorCode.HTTPStatus()
}

// Message returns the default message for whichever code is set.
func (r Result[T]) Message() string {
	if r.Succeeded {
		return r.SuccessCode.Message()
	}
	return r.ErrorCode.Message()
}
