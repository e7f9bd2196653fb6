package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalsEmitInOrder(t *testing.T) {
	s := &Signals{handlers: make(map[string][]SignalHandler)}

	var got []string
	s.Connect("test:event", func(sender any, params ...any) {
		got = append(got, "first:"+sender.(string))
	})
	s.Connect("test:event", func(sender any, params ...any) {
		got = append(got, "second:"+sender.(string))
	})

	s.Emit("test:event", "payload")
	assert.Equal(t, []string{"first:payload", "second:payload"}, got)
}

func TestSignalsEmitUnknownIsNoop(t *testing.T) {
	s := &Signals{handlers: make(map[string][]SignalHandler)}
	s.Emit("nobody:listens", nil)
}

func TestSignalsDisconnect(t *testing.T) {
	s := &Signals{handlers: make(map[string][]SignalHandler)}

	calls := 0
	s.Connect("test:event", func(sender any, params ...any) { calls++ })
	s.Emit("test:event", nil)
	s.Disconnect("test:event")
	s.Emit("test:event", nil)

	assert.Equal(t, 1, calls)
}

func TestSignalsParams(t *testing.T) {
	s := &Signals{handlers: make(map[string][]SignalHandler)}

	var gotParams []any
	s.Connect("test:event", func(sender any, params ...any) {
		gotParams = params
	})
	s.Emit("test:event", nil, 1, "two")

	assert.Equal(t, []any{1, "two"}, gotParams)
}
