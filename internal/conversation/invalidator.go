package conversation

// Invalidator is told when the recent sessions list is out of date.
// Implementations must not block.
type Invalidator interface {
	Invalidate()
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func()

// Invalidate calls f.
func (f InvalidatorFunc) Invalidate() {
	f()
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate() {}
