// Package plog configures the process-wide logger used by the pandata
// commands: leveled single-line output on stderr, optionally duplicated to
// a log file.
package plog

import (
	"os"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

var handler = NewHandler(os.Stderr)

// Setup installs the pandata log handler on the apex default logger.
// Commands call this once before any logging happens.
func Setup(verbose bool) {
	log.SetHandler(handler)

	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// LogToFile duplicates log output to the named file, appending to it if
// it already exists. The file stays open for the life of the process.
func LogToFile(name string) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "unable to open log file %s", name)
	}

	handler.AddWriter(f)
	return nil
}

// SetLevelFromString sets the level of the default logger from its string
// name (debug, info, warn, error, fatal).
func SetLevelFromString(s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return err
	}

	log.SetLevel(level)
	return nil
}
