package slog

import (
	"log/slog"

	"github.com/fwojciec/docdex"
)

var _ docdex.ProfileDetector = (*LoggingProfileDetector)(nil)

// LoggingProfileDetector wraps a ProfileDetector and logs which framework
// profile each page was matched to.
type LoggingProfileDetector struct {
	next   docdex.ProfileDetector
	logger *slog.Logger
}

// NewLoggingProfileDetector creates a new LoggingProfileDetector.
func NewLoggingProfileDetector(next docdex.ProfileDetector, logger *slog.Logger) *LoggingProfileDetector {
	return &LoggingProfileDetector{next: next, logger: logger}
}

// Detect delegates to the wrapped detector.
func (d *LoggingProfileDetector) Detect(html string) docdex.Profile {
	profile := d.next.Detect(html)
	name := string(profile)
	if profile == docdex.ProfileAuto {
		name = "none"
	}
	d.logger.Debug("profile detection", "profile", name)
	return profile
}
