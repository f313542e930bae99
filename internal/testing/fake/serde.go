package fake

import (
	"encoding/json"

	"github.com/TriviumNode/scrt-flex-multisig/serde"
)

// ContextEngine is a fake implementation of a serialization context engine
// that encodes with JSON and can be configured to fail.
//
// - implements serde.ContextEngine
type ContextEngine struct {
	Count *Counter

	format serde.Format
	err    error
}

// NewContext returns a fake serialization context.
func NewContext() serde.Context {
	return serde.NewContext(ContextEngine{
		format: serde.FormatJSON,
	})
}

// NewBadContext returns a fake serialization context that always fails.
func NewBadContext() serde.Context {
	return serde.NewContext(ContextEngine{
		format: serde.FormatJSON,
		err:    fakeErr,
	})
}

// NewBadContextWithDelay returns a fake serialization context that fails
// after some calls.
func NewBadContextWithDelay(delay int) serde.Context {
	return serde.NewContext(ContextEngine{
		format: serde.FormatJSON,
		Count:  &Counter{Value: delay},
		err:    fakeErr,
	})
}

// GetFormat implements serde.ContextEngine.
func (ctx ContextEngine) GetFormat() serde.Format {
	return ctx.format
}

// Marshal implements serde.ContextEngine.
func (ctx ContextEngine) Marshal(m interface{}) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	if ctx.errAfterDelay() != nil {
		return nil, ctx.err
	}

	return data, nil
}

// Unmarshal implements serde.ContextEngine.
func (ctx ContextEngine) Unmarshal(data []byte, m interface{}) error {
	err := json.Unmarshal(data, m)
	if err != nil {
		return err
	}

	return ctx.errAfterDelay()
}

func (ctx ContextEngine) errAfterDelay() error {
	if ctx.err == nil {
		return nil
	}

	if ctx.Count == nil || ctx.Count.Value <= 0 {
		return ctx.err
	}

	ctx.Count.Decrease()

	return nil
}

// Counter is a helper to count the number of remaining allowed calls.
type Counter struct {
	Value int
}

// Decrease decrements the counter.
func (c *Counter) Decrease() {
	c.Value--
}
