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

// SaveComponentConfig replaces the current configuration of a component.
// Payload files of earlier configurations are not removed.
func (s *Setup) SaveComponentConfig(component string, cfg *value.Mapping) error {
	key, compDir, err := s.componentPath(component)
	if err != nil {
		return err
	}
	dir := filepath.Join(compDir, ConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	if _, err := snapshot.Write(dir, snapshot.ConfigDocument, cfg); err != nil {
		return fmt.Errorf("failed to save configuration of %s: %w", key, err)
	}

	s.pathsFor(key).Config = dir
	s.cfg[key] = cfg.Clone()
	logging.Debug("Store", "configuration saved in %s", dir)
	return nil
}

// SaveComponentCalibration records a calibration for a component.
//
// Without overwrite, or when no calibration directory has been resolved in
// this session, a new directory named after the current Unix time is created
// and the latest link is moved to it. With overwrite, the resolved directory
// is written in place.
//
// The configuration resolved for the component, if any, is copied into the
// calibration directory so the snapshot can be reconstructed on its own.
func (s *Setup) SaveComponentCalibration(component string, cal *value.Mapping, overwrite bool) error {
	key, compDir, err := s.componentPath(component)
	if err != nil {
		return err
	}
	p := s.pathsFor(key)

	dir := p.Calibration
	created := false
	if overwrite && dir != "" {
		logging.Debug("Store", "overwriting calibration %s", dir)
	} else {
		dir = filepath.Join(compDir, strconv.FormatInt(s.now().Unix(), 10))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create calibration directory: %w", err)
		}
		created = true
		logging.Debug("Store", "creating new calibration %s", dir)
	}

	written, err := snapshot.Write(dir, snapshot.CalibrationDocument, cal)
	if err != nil {
		return fmt.Errorf("failed to save calibration of %s: %w", key, err)
	}
	p.Calibration = dir

	if p.Config != "" && p.Config != dir {
		// A configuration loaded as of a time lives in another calibration
		// directory; neither its calibration document nor its calibration
		// payloads may replace what was just written.
		exclude := append([]string{snapshot.CalibrationDocument}, written...)
		if old, err := snapshot.Read(p.Config, snapshot.CalibrationDocument); err == nil {
			exclude = append(exclude, snapshot.References(old)...)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read calibration in %s: %w", p.Config, err)
		}
		if err := fsutil.CopyTree(p.Config, dir, exclude...); err != nil {
			return fmt.Errorf("failed to copy configuration into calibration %s: %w", dir, err)
		}
	}

	if created {
		if err := fsutil.ReplaceSymlink(filepath.Base(dir), filepath.Join(compDir, LatestLink)); err != nil {
			return fmt.Errorf("failed to update %s link: %w", LatestLink, err)
		}
	}

	s.cal[key] = cal.Clone()
	logging.Debug("Store", "calibration written to %s", dir)
	return nil
}
