package fake

import (
	"encoding/json"

	"go.dedis.ch/custody/serde"
)

// ContextEngine is a fake implementation of a serde context engine. It can be
// configured to fail after a given delay of calls to the marshaling
// functions.
//
// - implements serde.ContextEngine
type ContextEngine struct {
	Count  *Counter
	format serde.Format
	err    error
}

// NewContext returns a serde context that produces a fake format.
func NewContext() serde.Context {
	return serde.NewContext(ContextEngine{
		format: GoodFormat,
	})
}

// NewContextWithFormat returns a serde context that produces the given format.
func NewContextWithFormat(f serde.Format) serde.Context {
	return serde.NewContext(ContextEngine{
		format: f,
	})
}

// NewBadContext returns a serde context that produces a bad format and
// returns an error when the marshaling functions are called.
func NewBadContext() serde.Context {
	return serde.NewContext(ContextEngine{
		format: BadFormat,
		err:    fakeErr,
	})
}

// NewBadContextWithDelay returns a serde context that produces a fake format
// but fails after the given amount of calls to the marshaling functions.
func NewBadContextWithDelay(delay int) serde.Context {
	return serde.NewContext(ContextEngine{
		Count:  NewCounter(delay),
		format: GoodFormat,
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

	if ctx.err != nil {
		if ctx.Count.Done() {
			return data, ctx.err
		}

		ctx.Count.Decrease()
	}

	return data, err
}

// Unmarshal implements serde.ContextEngine.
func (ctx ContextEngine) Unmarshal(data []byte, m interface{}) error {
	if ctx.err != nil {
		if ctx.Count.Done() {
			return ctx.err
		}

		ctx.Count.Decrease()
	}

	return json.Unmarshal(data, m)
}
