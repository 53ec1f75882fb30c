// Package logging configures the process-wide standard logger.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the optional log file
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// Setup points the standard logger at stdout and, if logFile is set, a rotating file.
// The returned closer releases the file and is safe to call when no file is used.
func Setup(logFile string) io.Closer {
	log.SetFlags(log.LstdFlags)

	if logFile == "" {
		log.SetOutput(os.Stdout)
		return nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	log.Printf("Logging to %s", logFile)
	return rotator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
