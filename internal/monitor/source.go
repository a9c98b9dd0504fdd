package monitor

import "context"

// Source is anything that can be asked for its current reading.
// Implementations return *errors.Error values coded ErrSource or ErrParse
// so the engine can pick the right placeholder.
type Source[T any] interface {
	Read(ctx context.Context) (T, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T any] func(ctx context.Context) (T, error)

// Read calls f.
func (f SourceFunc[T]) Read(ctx context.Context) (T, error) {
	return f(ctx)
}

// Sources is the full set of inputs for one dashboard.
// Any field may be nil: the matching value degrades to a placeholder,
// except Tokens, whose absence removes the LLM row entirely.
type Sources struct {
	ServerType Source[string]
	Hostname   Source[string]
	CPUInfo    Source[CPUInfo]
	CPU        Source[float64]
	Memory     Source[MemoryUsage]
	GPU        Source[[]GPUDevice]
	Network    Source[NetworkSample]
	Tokens     Source[float64]
}
