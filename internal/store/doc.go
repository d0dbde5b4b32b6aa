// Package store keeps versioned configuration and calibration snapshots for
// the components of a machine setup.
//
// # Layout
//
//	<setup>/
//	  <component>/
//	    cfg/
//	      cfg.yaml                current configuration
//	      <key>.npy | <key>.csv   externalized payloads
//	    <unix seconds>/           one directory per calibration
//	      cal.yaml
//	      <key>.npy | <key>.csv
//	      cfg.yaml ...            configuration in effect when it was taken
//	    latest -> <unix seconds>
//
// Configuration has no history: saving it overwrites cfg/. Every calibration
// save without overwrite creates a new timestamped directory, which makes the
// calibration history append-only. Because a calibration directory embeds the
// configuration active at the time, loading "as of" a time reconstructs both.
//
// # Failure policy
//
// A setup may be partially populated, so a component without configuration
// or calibration is not an error: the load reports found == false and logs
// the condition. Errors are returned only for I/O and parse failures.
// Publishing to a parameter sink is best effort and never fails a load.
//
// # Concurrency
//
// A Setup is not safe for concurrent use. No locking is done across
// processes either: two writers saving calibration for the same component
// within the same second share one timestamp directory.
package store
