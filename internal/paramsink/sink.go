// Package paramsink publishes resolved snapshot values to an external
// parameter store. Publishing is best effort: the store only calls a sink
// that reports itself available, and it logs and ignores any error.
package paramsink

import (
	"fmt"
	"sort"
	"strings"

	"calman/pkg/logging"
)

// Sink receives the parameters of one component under a namespace such as
// "/cell_a/gripper".
type Sink interface {
	// Available reports whether the backing system can currently be reached.
	Available() bool
	// SetParameters publishes values under namespace. values holds only
	// maps, slices, strings, bools, int64 and float64.
	SetParameters(namespace string, values map[string]any) error
}

// Nop discards everything. It is the default sink of a setup.
type Nop struct{}

func (Nop) Available() bool { return false }

func (Nop) SetParameters(string, map[string]any) error { return nil }

// ParamSetter is the parameter API exposed by a middleware node, for example
// a ROS node's SetParam.
type ParamSetter interface {
	SetParam(name string, value interface{}) error
}

// NodeSink forwards parameters to a middleware node. Online, when set, is
// consulted before every publish, mirroring a "is the master up" probe.
type NodeSink struct {
	Node   ParamSetter
	Online func() bool
}

func (s NodeSink) Available() bool {
	if s.Node == nil {
		return false
	}
	return s.Online == nil || s.Online()
}

func (s NodeSink) SetParameters(namespace string, values map[string]any) error {
	if err := s.Node.SetParam(namespace, values); err != nil {
		return fmt.Errorf("failed to set %s: %w", namespace, err)
	}
	return nil
}

// LogSink writes every leaf parameter to the debug log. It is useful for
// checking what a load would publish without a parameter server.
type LogSink struct{}

func (LogSink) Available() bool { return true }

func (LogSink) SetParameters(namespace string, values map[string]any) error {
	for _, p := range Flatten(namespace, values) {
		logging.Debug("ParamSink", "%s = %v", p.Name, p.Value)
	}
	return nil
}

// Param is one leaf of a flattened parameter tree.
type Param struct {
	Name  string
	Value any
}

// Flatten turns nested maps into slash separated parameter names, sorted by
// name.
func Flatten(namespace string, values map[string]any) []Param {
	var out []Param
	flatten(strings.TrimSuffix(namespace, "/"), values, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func flatten(prefix string, values map[string]any, out *[]Param) {
	for k, v := range values {
		name := prefix + "/" + k
		if nested, ok := v.(map[string]any); ok {
			flatten(name, nested, out)
			continue
		}
		*out = append(*out, Param{Name: name, Value: v})
	}
}
