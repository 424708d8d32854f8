package extraction

import "context"

// Advisor answers free-form questions about a user's recorded notes. Unlike
// Analyze this is a read-side call with no durability at stake, so failures
// surface as errors for the handler to map.
type Advisor interface {
	Advise(ctx context.Context, question string, notes []string) (string, error)
}

// StaticAdvisor returns a fixed answer for every question. Useful in tests.
type StaticAdvisor struct {
	Answer string
	Err    error
}

// Advise returns the configured answer or error.
func (a StaticAdvisor) Advise(_ context.Context, _ string, _ []string) (string, error) {
	return a.Answer, a.Err
}
