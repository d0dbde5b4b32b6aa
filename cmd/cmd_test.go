package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calman/internal/config"
	"calman/internal/paramsink"
	"calman/internal/registry"
)

type cliEnv struct {
	configPath string
	storage    string
	data       string
}

// newCLIEnv creates a storage link pointing at an empty data directory and
// a config file path that does not exist, so defaults apply.
func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	base := t.TempDir()
	env := &cliEnv{
		configPath: filepath.Join(base, "config.yaml"),
		storage:    filepath.Join(base, "setups"),
		data:       filepath.Join(base, "data"),
	}
	require.NoError(t, os.Mkdir(env.data, 0o755))
	_, _, err := env.run("storage", "set", env.data)
	require.NoError(t, err)
	return env
}

func (e *cliEnv) run(args ...string) (string, string, error) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath, "--storage", e.storage, "--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	env := newCLIEnv(t)
	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", GetVersion())

	cmd := newRootCmd()
	cmd.Version = "1.2.3-test"
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", env.configPath, "version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "calman version 1.2.3-test\n", out.String())
}

func TestSetupCommands(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run("setup", "create", "cell_a")
	require.NoError(t, err)
	assert.Contains(t, out, "cell_a")
	assert.DirExists(t, filepath.Join(env.data, "cell_a"))

	_, _, err = env.run("setup", "create", "cell_b", "--select")
	require.NoError(t, err)

	out, _, err = env.run("setup", "current")
	require.NoError(t, err)
	assert.Equal(t, "cell_b\n", out)

	_, _, err = env.run("setup", "select", "cell_a")
	require.NoError(t, err)

	out, _, err = env.run("setup", "list", "-o", "json")
	require.NoError(t, err)
	var setups []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &setups))
	require.Len(t, setups, 2)
	assert.Equal(t, "cell_a", setups[0]["name"])
	assert.Equal(t, true, setups[0]["selected"])
	assert.Equal(t, false, setups[1]["selected"])
}

func TestExitCodes(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run("setup", "create", "cell_a")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"duplicate setup", []string{"setup", "create", "cell_a"}, ExitCodeConflict},
		{"missing setup", []string{"setup", "select", "ghost"}, ExitCodeNotFound},
		{"storage not a directory", []string{"storage", "set", filepath.Join(env.data, "missing")}, ExitCodeConflict},
		{"unknown setup flag", []string{"show", "--setup", "ghost"}, ExitCodeNotFound},
		{"missing component", []string{"show", "gripper", "--setup", "cell_a"}, ExitCodeNotFound},
		{"bad output", []string{"setup", "list", "-o", "xml"}, ExitCodeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.run(tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, getExitCode(err))
		})
	}
}

func TestStorageSetKeepsLinkOnFailure(t *testing.T) {
	env := newCLIEnv(t)
	before, err := os.Readlink(env.storage)
	require.NoError(t, err)

	_, _, err = env.run("storage", "set", filepath.Join(env.data, "missing"))
	var notDir *registry.NotADirectoryError
	require.ErrorAs(t, err, &notDir)

	after, err := os.Readlink(env.storage)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	out, _, err := env.run("storage", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "->")
}

func TestExampleAndShow(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run("setup", "create", "cell_a", "--select")
	require.NoError(t, err)

	out, _, err := env.run("example")
	require.NoError(t, err)
	assert.Contains(t, out, "example_component")

	out, _, err = env.run("show", "example_component", "-o", "json")
	require.NoError(t, err)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "cfg", docs[0]["kind"])
	assert.Equal(t, 1.6, docs[0]["values"].(map[string]any)["test_param_A"])
	assert.Equal(t, "cal", docs[1]["kind"])
	arr := docs[1]["values"].(map[string]any)["test_array_B"].([]any)
	assert.Len(t, arr, 3)

	out, _, err = env.run("show")
	require.NoError(t, err)
	assert.Contains(t, out, "subcomponent.sub-subcomponent.sub_param_A")
}

func TestShowPrintsLoadedComponentsDespiteBrokenOne(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run("setup", "create", "cell_a", "--select")
	require.NoError(t, err)
	_, _, err = env.run("example")
	require.NoError(t, err)

	brokenDir := filepath.Join(env.storage, "cell_a", "broken", "cfg")
	require.NoError(t, os.MkdirAll(brokenDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(brokenDir, "cfg.yaml"), []byte("- not a mapping\n"), 0o644))

	out, _, err := env.run("show", "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.NotEmpty(t, docs)
	for _, doc := range docs {
		assert.Equal(t, "example_component", doc["component"])
	}
}

func TestImportAndHistory(t *testing.T) {
	env := newCLIEnv(t)
	setupDir := filepath.Join(env.data, "cell_a")
	_, _, err := env.run("setup", "create", "cell_a")
	require.NoError(t, err)

	src := t.TempDir()
	cfgFile := filepath.Join(src, "gripper.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("gain: 1.5\nlimits: limits.csv\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "limits.csv"), []byte("joint,max\nfinger,0.8\n"), 0o644))
	calFile := filepath.Join(src, "cal.yaml")
	require.NoError(t, os.WriteFile(calFile, []byte("offset: 0.25\n"), 0o644))

	_, _, err = env.run("import", "gripper", cfgFile, "--setup", setupDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(setupDir, "gripper", "cfg", "limits.csv"))

	out, _, err := env.run("import", "gripper", calFile, "--calibration", "--setup", setupDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved calibration")

	out, _, err = env.run("history", "gripper", "--setup", setupDir, "-o", "json")
	require.NoError(t, err)
	var hist struct {
		Component    string `json:"component"`
		Calibrations []struct {
			Timestamp int64  `json:"timestamp"`
			Dir       string `json:"dir"`
			Latest    bool   `json:"latest"`
		} `json:"calibrations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &hist))
	require.Len(t, hist.Calibrations, 1)
	assert.True(t, hist.Calibrations[0].Latest)
	calDir := hist.Calibrations[0].Dir
	assert.FileExists(t, filepath.Join(calDir, "cal.yaml"))
	assert.FileExists(t, filepath.Join(calDir, "cfg.yaml"))
	assert.FileExists(t, filepath.Join(calDir, "limits.csv"))

	require.NoError(t, os.WriteFile(calFile, []byte("offset: 0.5\n"), 0o644))
	_, _, err = env.run("import", "gripper", calFile, "--calibration", "--overwrite", "--setup", setupDir)
	require.NoError(t, err)

	out, _, err = env.run("history", "gripper", "--setup", setupDir, "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &hist))
	assert.Len(t, hist.Calibrations, 1)

	_, _, err = env.run("import", "gripper", calFile, "--overwrite", "--setup", setupDir)
	assert.Error(t, err)
}

type recordingSink struct {
	calls map[string]map[string]any
}

func (r *recordingSink) Available() bool { return true }

func (r *recordingSink) SetParameters(namespace string, values map[string]any) error {
	r.calls[namespace] = values
	return nil
}

func TestShowPublishesParameters(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run("setup", "create", "cell_a", "--select")
	require.NoError(t, err)
	_, _, err = env.run("example")
	require.NoError(t, err)

	sink := &recordingSink{calls: map[string]map[string]any{}}
	var got config.ParametersConfig
	orig := newSink
	newSink = func(cfg config.ParametersConfig) (paramsink.Sink, error) {
		got = cfg
		return sink, nil
	}
	t.Cleanup(func() { newSink = orig })

	_, _, err = env.run("show", "example_component", "--params", "default")
	require.NoError(t, err)
	assert.Equal(t, config.SinkNone, got.Sink)
	require.Contains(t, sink.calls, "/cell_a/example_component")
	assert.Equal(t, "test_array_B.npy", sink.calls["/cell_a/example_component"]["test_array_B"])
}

func TestConfigFileApplies(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.WriteFile(env.configPath, []byte("output: yaml\nparameters: {sink: log}\n"), 0o644))
	_, _, err := env.run("setup", "create", "cell_a")
	require.NoError(t, err)

	out, _, err := env.run("setup", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "name: cell_a")

	require.NoError(t, os.WriteFile(env.configPath, []byte("output: xml\n"), 0o644))
	_, _, err = env.run("setup", "list")
	assert.Error(t, err)
}

func TestIsPathLike(t *testing.T) {
	assert.True(t, isPathLike("./cell"))
	assert.True(t, isPathLike("/data/cell"))
	assert.True(t, isPathLike("~/cell"))
	assert.True(t, isPathLike("."))
	assert.False(t, isPathLike("cell_a"))
	assert.False(t, isPathLike(""))
}
