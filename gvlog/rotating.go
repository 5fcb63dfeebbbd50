package gvlog

import (
	"log"

	"github.com/dustin/go-humanize"
	"github.com/natefinch/lumberjack"
)

// LogConfig configures a RotatingLogger, decoded straight out of TOML by
// gconfig, matching the teacher's dvid.LogConfig in dvid/log_local.go.
type LogConfig struct {
	Logfile string `toml:"logfile"`
	MaxSize int    `toml:"max_size_mb"`
	MaxAge  int    `toml:"max_age_days"`
}

// RotatingLogger writes to a lumberjack-rotated file instead of stderr,
// for long-running encode/decode batch jobs.
type RotatingLogger struct {
	out    *lumberjack.Logger
	logger *log.Logger
}

// NewRotatingLogger opens (or creates) cfg.Logfile under lumberjack's
// rotation policy.
func NewRotatingLogger(cfg LogConfig) *RotatingLogger {
	out := &lumberjack.Logger{
		Filename: cfg.Logfile,
		MaxSize:  cfg.MaxSize,
		MaxAge:   cfg.MaxAge,
	}
	return &RotatingLogger{
		out:    out,
		logger: log.New(out, "", log.Ldate|log.Ltime),
	}
}

func (r *RotatingLogger) Debugf(format string, args ...interface{}) {
	r.logger.Printf("[DEBUG] "+format, args...)
}
func (r *RotatingLogger) Infof(format string, args ...interface{}) {
	r.logger.Printf("[INFO] "+format, args...)
}
func (r *RotatingLogger) Warningf(format string, args ...interface{}) {
	r.logger.Printf("[WARN] "+format, args...)
}
func (r *RotatingLogger) Errorf(format string, args ...interface{}) {
	r.logger.Printf("[ERROR] "+format, args...)
}
func (r *RotatingLogger) Criticalf(format string, args ...interface{}) {
	r.logger.Printf("[CRIT] "+format, args...)
}

// Shutdown closes the underlying rotated file.
func (r *RotatingLogger) Shutdown() {
	r.out.Close()
}

// LogBufferSize logs a human-readable size, e.g. "12 MB", matching the
// teacher's preference for humanize.Bytes over raw counts in log lines
// (see blockTiming.String()).
func LogBufferSize(logger Logger, label string, n uint64) {
	logger.Infof("%s: %s", label, humanize.Bytes(n))
}
