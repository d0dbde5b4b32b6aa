package paramsink

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calman/pkg/logging"
)

type recordingNode struct {
	params map[string]interface{}
	err    error
}

func (n *recordingNode) SetParam(name string, value interface{}) error {
	if n.err != nil {
		return n.err
	}
	if n.params == nil {
		n.params = map[string]interface{}{}
	}
	n.params[name] = value
	return nil
}

func TestNop(t *testing.T) {
	var s Sink = Nop{}
	assert.False(t, s.Available())
	assert.NoError(t, s.SetParameters("/a/b", map[string]any{"x": 1}))
}

func TestNodeSink(t *testing.T) {
	node := &recordingNode{}
	online := false
	s := NodeSink{Node: node, Online: func() bool { return online }}

	assert.False(t, s.Available())
	online = true
	assert.True(t, s.Available())

	values := map[string]any{"gain": 1.5}
	require.NoError(t, s.SetParameters("/cell/arm", values))
	assert.Equal(t, values, node.params["/cell/arm"])

	node.err = errors.New("master unreachable")
	err := s.SetParameters("/cell/arm", values)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/cell/arm")

	assert.False(t, NodeSink{}.Available())
}

func TestFlatten(t *testing.T) {
	got := Flatten("/cell/arm/", map[string]any{
		"gain": 1.5,
		"sub":  map[string]any{"on": true, "deep": map[string]any{"n": int64(3)}},
	})
	assert.Equal(t, []Param{
		{Name: "/cell/arm/gain", Value: 1.5},
		{Name: "/cell/arm/sub/deep/n", Value: int64(3)},
		{Name: "/cell/arm/sub/on", Value: true},
	}, got)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logging.InitForCLI(logging.LevelDebug, &buf)

	s := LogSink{}
	assert.True(t, s.Available())
	require.NoError(t, s.SetParameters("/cell/arm", map[string]any{"gain": 2}))
	assert.Contains(t, buf.String(), "/cell/arm/gain = 2")
}
