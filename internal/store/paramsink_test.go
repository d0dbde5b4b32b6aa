package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calman/internal/value"
)

type recordingSink struct {
	available bool
	err       error
	calls     map[string]map[string]any
}

func (r *recordingSink) Available() bool { return r.available }

func (r *recordingSink) SetParameters(namespace string, values map[string]any) error {
	if r.calls == nil {
		r.calls = map[string]map[string]any{}
	}
	r.calls[namespace] = values
	return r.err
}

func TestLoad_PublishesToDefaultNamespace(t *testing.T) {
	sink := &recordingSink{available: true}
	s := openSetup(t, WithParameterSink(sink), WithClock(steppingClock(100)))
	require.NoError(t, s.SaveComponentConfig("arm", value.MappingOf("gain", 1.5, "lut", value.Vector(1, 2))))
	require.NoError(t, s.SaveComponentCalibration("arm", value.MappingOf("offset", 0.5), false))

	_, _, err := s.LoadComponentConfig("arm", LoadOptions{ParamNamespace: DefaultParamNamespace})
	require.NoError(t, err)

	ns := "/" + s.Name() + "/arm"
	require.Contains(t, sink.calls, ns)
	// Payloads are published as the file references stored in the document.
	assert.Equal(t, map[string]any{"gain": 1.5, "lut": "lut.npy"}, sink.calls[ns])

	_, _, err = s.LoadComponentCalibration("arm", LoadOptions{ParamNamespace: "/custom/ns"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"offset": 0.5}, sink.calls["/custom/ns"])
}

func TestLoad_NoNamespaceNoPublish(t *testing.T) {
	sink := &recordingSink{available: true}
	s := openSetup(t, WithParameterSink(sink))
	require.NoError(t, s.SaveComponentConfig("arm", value.MappingOf("gain", 1.5)))

	_, _, err := s.LoadComponentConfig("arm", LoadOptions{})
	require.NoError(t, err)
	assert.Empty(t, sink.calls)
}

func TestLoad_UnavailableSinkSkipped(t *testing.T) {
	sink := &recordingSink{available: false}
	s := openSetup(t, WithParameterSink(sink))
	require.NoError(t, s.SaveComponentConfig("arm", value.MappingOf("gain", 1.5)))

	_, found, err := s.LoadComponentConfig("arm", LoadOptions{ParamNamespace: DefaultParamNamespace})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, sink.calls)
}

func TestLoad_SinkFailureIsSwallowed(t *testing.T) {
	logs := captureLogs(t)
	sink := &recordingSink{available: true, err: errors.New("master unreachable")}
	s := openSetup(t, WithParameterSink(sink))
	require.NoError(t, s.SaveComponentConfig("arm", value.MappingOf("lut", value.Vector(3))))

	cfg, found, err := s.LoadComponentConfig("arm", LoadOptions{ParamNamespace: DefaultParamNamespace})
	require.NoError(t, err)
	require.True(t, found)
	lut, _ := cfg.Get("lut")
	assert.Equal(t, value.KindArray, lut.Kind())
	assert.Contains(t, logs.String(), "failed to set parameters")
	assert.Contains(t, logs.String(), "master unreachable")
	assert.FileExists(t, filepath.Join(s.Root(), "arm", ConfigDir, "lut.npy"))
}
