// Copyright 2025 baesync authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package translog appends a plain timestamped line per operation outcome
// to the transfer log file, mirroring every event to zerolog.
package translog

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Level is the severity recorded on a log line
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// 📝 Logger appends operation outcomes to the transfer log file. Writes
// are serialized so copy workers can share one handle.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	zlog zerolog.Logger
	now  func() time.Time
}

// 🏭 Open opens (or creates) the transfer log in append mode
func Open(path string, zlog zerolog.Logger) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Errorf("opening transfer log %s: %w", path, err)
	}
	return &Logger{
		file: file,
		zlog: zlog,
		now:  time.Now,
	}, nil
}

// 🚫 Nop returns a logger that keeps the zerolog mirror but writes no
// file lines. Used for dry runs, where no operation actually completes.
func Nop(zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog: zlog,
		now:  time.Now,
	}
}

// 🔒 Close closes the underlying log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	if err := l.file.Close(); err != nil {
		return errors.Errorf("closing transfer log: %w", err)
	}
	return nil
}

// write appends one formatted line. Callers hold no lock.
func (l *Logger) write(level Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}
	line := fmt.Sprintf("%s - %s - %s\n", l.now().Format(time.RFC3339), level, msg)
	if _, err := l.file.WriteString(line); err != nil {
		l.zlog.Error().Err(err).Msg("writing transfer log line")
	}
}

// Info appends an INFO line
func (l *Logger) Info(msg string) {
	l.write(LevelInfo, msg)
	l.zlog.Info().Msg(msg)
}

// Warning appends a WARNING line
func (l *Logger) Warning(msg string) {
	l.write(LevelWarning, msg)
	l.zlog.Warn().Msg(msg)
}

// Error appends an ERROR line
func (l *Logger) Error(msg string) {
	l.write(LevelError, msg)
	l.zlog.Error().Msg(msg)
}

// 🚀 TransferStart records the start of a transfer run
func (l *Logger) TransferStart(source, destination string) {
	l.Info(fmt.Sprintf("Starting transfer from %s to %s", source, destination))
	l.Info(fmt.Sprintf("Source exists: %t", pathExists(source)))
	l.Info(fmt.Sprintf("Destination exists: %t", pathExists(destination)))
}

// 📄 FileCopied records a completed file copy
func (l *Logger) FileCopied(relPath string, bytes int64) {
	l.Info(fmt.Sprintf("Successfully transferred: %s (%d bytes)", relPath, bytes))
}

// ⏭️ FileSkipped records a file left alone and why
func (l *Logger) FileSkipped(relPath, reason string) {
	l.Info(fmt.Sprintf("Skipped %s: %s", relPath, reason))
}

// ⚠️ FileConflict records a size mismatch that was not overwritten
func (l *Logger) FileConflict(relPath string, srcSize, dstSize int64) {
	l.Warning(fmt.Sprintf("Conflict for %s: source_size=%d, dest_size=%d", relPath, srcSize, dstSize))
}

// 🗑️ FileDeleted records removal of an extraneous destination file
func (l *Logger) FileDeleted(relPath string) {
	l.Info(fmt.Sprintf("Deleted extraneous file: %s", relPath))
}

// ❌ FileFailed records a failed file transfer
func (l *Logger) FileFailed(relPath string, err error) {
	l.Error(fmt.Sprintf("Failed to transfer %s: %v", relPath, err))
}

// 🏁 TransferComplete records the end of a transfer run
func (l *Logger) TransferComplete(err error) {
	if err != nil {
		l.Error(fmt.Sprintf("Transfer failed: %v", err))
		return
	}
	l.Info("Transfer completed successfully")
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
