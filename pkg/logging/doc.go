// Package logging provides the structured logging used throughout calman.
//
// It is a thin layer over Go's slog package that tags every entry with a
// subsystem name so output from the store, the setup registry and the
// parameter sinks can be told apart and filtered.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Store", "opened setup %s", root)
//	logging.Warn("Store", "no calibration found for %s", component)
//	logging.Error("ParamSink", err, "failed to set parameters under %s", ns)
//
// Before initialization only warnings and errors are printed, directly to
// stderr, so library users who never configure logging still see problems.
//
// # Subsystems
//
//   - Store: component load/save resolution
//   - Registry: setup storage location and selection
//   - ParamSink: best-effort parameter publishing
//   - Watch: calibration directory watcher
//   - Config: tool configuration loading
//
// InitForCLI also routes controller-runtime's logger through the same
// handler, which the ConfigMap parameter sink relies on.
package logging
