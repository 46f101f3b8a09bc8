package quiz

// Outcome tags a result with how it was produced. Degraded means the primary
// path failed and the value came from the fallback model or a canned default.
type Outcome[T any] struct {
	Value     T
	Degraded  bool
	Reason    string
	ModelUsed string
}

func ok[T any](value T, model string) Outcome[T] {
	return Outcome[T]{Value: value, ModelUsed: model}
}

func degraded[T any](value T, model, reason string) Outcome[T] {
	return Outcome[T]{Value: value, Degraded: true, Reason: reason, ModelUsed: model}
}
