// Package gvlog provides the logging surface every gvox package logs
// through: a small Logger interface, package-level gated log functions,
// and a TimeLog helper that suffixes a message with elapsed time.
// Grounded on the teacher's dvid/log.go.
package gvlog

import (
	"fmt"
	"log"
	"time"
)

// Mode gates which package-level log calls actually print, matching the
// teacher's dvid.ModeFlag.
type Mode uint

const (
	Normal Mode = iota
	Debug
	Benchmark
)

// CurrentMode is the process-wide logging mode. It defaults to Normal.
var CurrentMode = Normal

// Logger is the interface every component logs through, matching the
// teacher's dvid.Logger.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
	Shutdown()
}

// StandardLogger writes every level to the stdlib log package, the
// default when no rotating file logger is configured.
type StandardLogger struct{}

func (StandardLogger) Debugf(format string, args ...interface{})    { log.Printf("[DEBUG] "+format, args...) }
func (StandardLogger) Infof(format string, args ...interface{})     { log.Printf("[INFO] "+format, args...) }
func (StandardLogger) Warningf(format string, args ...interface{})  { log.Printf("[WARN] "+format, args...) }
func (StandardLogger) Errorf(format string, args ...interface{})    { log.Printf("[ERROR] "+format, args...) }
func (StandardLogger) Criticalf(format string, args ...interface{}) { log.Printf("[CRIT] "+format, args...) }
func (StandardLogger) Shutdown()                                    {}

// Default is the package-wide logger used by the gated Debugf/Infof/...
// functions below. Replace it (e.g. with a RotatingLogger) at startup.
var Default Logger = StandardLogger{}

// Debugf logs at debug level only when CurrentMode is Debug or Benchmark.
func Debugf(format string, args ...interface{}) {
	if CurrentMode == Debug || CurrentMode == Benchmark {
		Default.Debugf(format, args...)
	}
}

// Infof always logs.
func Infof(format string, args ...interface{}) {
	Default.Infof(format, args...)
}

// Warningf always logs.
func Warningf(format string, args ...interface{}) {
	Default.Warningf(format, args...)
}

// Errorf always logs.
func Errorf(format string, args ...interface{}) {
	Default.Errorf(format, args...)
}

// Criticalf always logs.
func Criticalf(format string, args ...interface{}) {
	Default.Criticalf(format, args...)
}

// TimeLog wraps a Logger and a start time, suffixing its Infof and Debugf
// calls with the elapsed time since it was created, matching the
// teacher's dvid.TimeLog. The other levels pass through to the wrapped
// Logger unchanged, without the suffix.
type TimeLog struct {
	Logger
	start time.Time
}

// NewTimeLog returns a TimeLog that logs against the package Default
// logger, started now.
func NewTimeLog() TimeLog {
	return TimeLog{Logger: Default, start: time.Now()}
}

// Infof logs msg with the elapsed time appended.
func (t TimeLog) Infof(format string, args ...interface{}) {
	t.Logger.Infof(elapsed(format, t.start), args...)
}

// Debugf logs msg with the elapsed time appended.
func (t TimeLog) Debugf(format string, args ...interface{}) {
	t.Logger.Debugf(elapsed(format, t.start), args...)
}

func elapsed(format string, start time.Time) string {
	return fmt.Sprintf("%s (%s)", format, time.Since(start))
}
