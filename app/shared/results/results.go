package results

// OperationResult carries either a domain success or a domain failure.
// Infrastructure errors travel alongside it as a plain error.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult builds a successful result.
func SuccessResult[S any, F any](success S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &success}
}

// FailureResult builds a failed result.
func FailureResult[S any, F any](failure F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &failure}
}

// IsSuccess reports whether the result holds a success payload.
func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

// IsFailure reports whether the result holds a failure payload.
func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}
