package store

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// calibrationTimes lists the timestamped calibration directories of a
// component directory, newest first.
func calibrationTimes(componentDir string) ([]int64, error) {
	entries, err := os.ReadDir(componentDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var times []int64
	for _, e := range entries {
		if !IsTimestamp(e.Name()) {
			continue
		}
		info, err := os.Stat(filepath.Join(componentDir, e.Name()))
		if err != nil || !info.IsDir() {
			continue
		}
		ts, err := strconv.ParseInt(e.Name(), 10, 64)
		if err != nil {
			continue
		}
		times = append(times, ts)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] > times[j] })
	return times, nil
}

// IsTimestamp reports whether name is a calibration directory name, a
// non-empty string of decimal digits.
func IsTimestamp(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// atOrBefore returns the newest timestamp not after at. times must be sorted
// newest first.
func atOrBefore(times []int64, at int64) (int64, bool) {
	for _, ts := range times {
		if ts <= at {
			return ts, true
		}
	}
	return 0, false
}

// CalibrationHistory returns the timestamps of a component's calibrations,
// oldest first. A component without calibrations has an empty history.
func (s *Setup) CalibrationHistory(component string) ([]int64, error) {
	_, dir, err := s.componentPath(component)
	if err != nil {
		return nil, err
	}
	times, err := calibrationTimes(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times, nil
}

// CalibrationDir returns the directory of the calibration taken at ts.
func (s *Setup) CalibrationDir(component string, ts int64) (string, error) {
	_, dir, err := s.componentPath(component)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, strconv.FormatInt(ts, 10)), nil
}

// LatestCalibration returns the timestamp the latest link points at.
func (s *Setup) LatestCalibration(component string) (int64, bool, error) {
	_, dir, err := s.componentPath(component)
	if err != nil {
		return 0, false, err
	}
	target, err := os.Readlink(filepath.Join(dir, LatestLink))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, err
	}
	ts, err := strconv.ParseInt(filepath.Base(target), 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return ts, true, nil
}
