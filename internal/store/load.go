package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"calman/internal/fsutil"
	"calman/internal/snapshot"
	"calman/internal/value"
	"calman/pkg/logging"
)

// LoadAll loads every component directory of the setup and returns their
// names in directory listing order. A component that fails to load does not
// stop the others; its error is logged and included in the joined error.
func (s *Setup) LoadAll(opts LoadOptions) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list setup %s: %w", s.root, err)
	}

	var names []string
	var errs []error
	for _, e := range entries {
		if !fsutil.IsDir(filepath.Join(s.root, e.Name())) {
			continue
		}
		name := e.Name()
		if err := s.LoadComponent(name, opts); err != nil {
			logging.Error("Store", err, "failed to load component %s", name)
			errs = append(errs, err)
		}
		names = append(names, name)
	}
	s.components = names
	return names, errors.Join(errs...)
}

// LoadComponent loads the configuration and then the calibration of a
// component. Either may be missing without affecting the other.
func (s *Setup) LoadComponent(component string, opts LoadOptions) error {
	_, _, cfgErr := s.LoadComponentConfig(component, opts)
	_, _, calErr := s.LoadComponentCalibration(component, opts)
	return errors.Join(cfgErr, calErr)
}

// LoadComponentConfig resolves and loads a component's configuration:
//
//  1. with opts.At set, the configuration embedded in the newest calibration
//     taken at or before that time;
//  2. otherwise, or when no such calibration exists, cfg/cfg.yaml;
//  3. otherwise a copy of opts.DefaultSource installed as cfg/;
//  4. otherwise nothing, reported as found == false.
func (s *Setup) LoadComponentConfig(component string, opts LoadOptions) (*value.Mapping, bool, error) {
	key, compDir, err := s.componentPath(component)
	if err != nil {
		return nil, false, err
	}
	if err := os.MkdirAll(compDir, 0o755); err != nil {
		return nil, false, fmt.Errorf("failed to create component directory: %w", err)
	}

	var dir string
	if !opts.At.IsZero() {
		times, err := calibrationTimes(compDir)
		if err != nil {
			return nil, false, fmt.Errorf("failed to list calibrations of %s: %w", key, err)
		}
		if len(times) > 0 {
			ts, ok := atOrBefore(times, opts.At.Unix())
			calDir := filepath.Join(compDir, strconv.FormatInt(ts, 10))
			switch {
			case !ok:
				logging.Warn("Store", "no calibration of %s at or before %d, using current configuration", key, opts.At.Unix())
			case !fsutil.IsFile(filepath.Join(calDir, snapshot.ConfigDocument)):
				logging.Warn("Store", "calibration %s has no embedded configuration, using current configuration", calDir)
			default:
				dir = calDir
			}
		}
	}

	if dir == "" {
		cfgDir := filepath.Join(compDir, ConfigDir)
		switch {
		case fsutil.IsFile(filepath.Join(cfgDir, snapshot.ConfigDocument)):
			dir = cfgDir
		case opts.DefaultSource != "" && defaultSourceExists(opts.DefaultSource):
			src, _ := fsutil.ExpandHome(opts.DefaultSource)
			logging.Warn("Store", "no prior configuration found, loading from defaults %s", src)
			if err := fsutil.CopyTree(src, cfgDir); err != nil {
				return nil, false, fmt.Errorf("failed to install default configuration for %s: %w", key, err)
			}
			dir = cfgDir
		default:
			logging.Error("Store", nil, "No configuration could be found for %s", key)
			return nil, false, nil
		}
	}

	doc, err := snapshot.Read(dir, snapshot.ConfigDocument)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read configuration of %s: %w", key, err)
	}
	s.pathsFor(key).Config = dir
	s.publish(key, doc, opts.ParamNamespace)

	cfg, err := snapshot.Rehydrate(doc, dir)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load configuration payloads of %s: %w", key, err)
	}
	s.cfg[key] = cfg
	logging.Debug("Store", "loaded configuration of %s from %s", key, dir)
	return cfg, true, nil
}

// LoadComponentCalibration loads the newest calibration of a component, or
// with opts.At set the newest one taken at or before that time. When there
// is none, found is false.
func (s *Setup) LoadComponentCalibration(component string, opts LoadOptions) (*value.Mapping, bool, error) {
	key, compDir, err := s.componentPath(component)
	if err != nil {
		return nil, false, err
	}
	if err := os.MkdirAll(compDir, 0o755); err != nil {
		return nil, false, fmt.Errorf("failed to create component directory: %w", err)
	}

	times, err := calibrationTimes(compDir)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list calibrations of %s: %w", key, err)
	}

	var ts int64
	found := len(times) > 0
	if found {
		if opts.At.IsZero() {
			ts = times[0]
		} else {
			ts, found = atOrBefore(times, opts.At.Unix())
		}
	}
	if !found {
		logging.Warn("Store", "no calibration found for %s", key)
		return nil, false, nil
	}

	dir := filepath.Join(compDir, strconv.FormatInt(ts, 10))
	doc, err := snapshot.Read(dir, snapshot.CalibrationDocument)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read calibration of %s: %w", key, err)
	}
	s.pathsFor(key).Calibration = dir
	s.publish(key, doc, opts.ParamNamespace)

	cal, err := snapshot.Rehydrate(doc, dir)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load calibration payloads of %s: %w", key, err)
	}
	s.cal[key] = cal
	logging.Debug("Store", "loaded calibration of %s from %s", key, dir)
	return cal, true, nil
}

func defaultSourceExists(path string) bool {
	expanded, err := fsutil.ExpandHome(path)
	return err == nil && fsutil.IsDir(expanded)
}
