// Package logger provides the tagged console logger used across the app.
// Output goes through zap; tags group lines by subsystem ("DB", "API", ...).
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

func init() {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		z = zap.NewNop()
	}
	log = z.Sugar()
}

// Info logs an informational message under a subsystem tag.
func Info(tag, msg string) {
	log.Infof("[%s] %s", tag, msg)
}

// Success logs a completed-step message under a subsystem tag.
func Success(tag, msg string) {
	log.Infof("[%s] ✓ %s", tag, msg)
}

// Warn logs a warning under a subsystem tag.
func Warn(tag, msg string) {
	log.Warnf("[%s] %s", tag, msg)
}

// Error logs an error under a subsystem tag.
func Error(tag, msg string) {
	log.Errorf("[%s] %s", tag, msg)
}

// Banner prints the startup banner with the build version.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Printf(`
  _                           _     _____         _
 | |    __ _ _   _ _ __   ___| |__ |  ___|_ _ ___| |_
 | |   / _' | | | | '_ \ / __| '_ \| |_ / _' / __| __|
 | |__| (_| | |_| | | | | (__| | | |  _| (_| \__ \ |_
 |_____\__,_|\__,_|_| |_|\___|_| |_|_|  \__,_|___/\__|

  product research scoring engine  %s

`, version)
}

// Section prints a visual section header.
func Section(title string) {
	log.Infof("── %s ──", title)
}

// Stats logs a single key/value statistic.
func Stats(key string, value any) {
	log.Infof("%s: %v", key, value)
}

// Sync flushes any buffered log entries; call on shutdown.
func Sync() {
	_ = log.Sync()
}
