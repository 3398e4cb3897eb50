package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Folder is the default folder rovers write their log files to.
var Folder = filepath.Join(os.TempDir(), "roverLog")

// FileName is the file which records all logs by default.
const FileName = "rover.log"

// RoverLog wraps a named logrus.Logger with printf-style level methods.
type RoverLog struct {
	log *logrus.Logger
}

var (
	logMap      map[string]*RoverLog
	getLogMutex sync.Mutex
)

// Panic logs at Panic level and then panics.
func (p *RoverLog) Panic(format string, args ...interface{}) {
	p.log.Panicf(format, args...)
}

// Fatal logs at Fatal level and then calls os.Exit(1).
func (p *RoverLog) Fatal(format string, args ...interface{}) {
	p.log.Fatalf(format, args...)
}

// Error logs an error that should definitely be noted.
func (p *RoverLog) Error(format string, args ...interface{}) {
	p.log.Errorf(format, args...)
}

// Warn logs a non-critical entry that deserves eyes.
func (p *RoverLog) Warn(format string, args ...interface{}) {
	p.log.Warnf(format, args...)
}

// Info logs a general operational entry.
func (p *RoverLog) Info(format string, args ...interface{}) {
	p.log.Infof(format, args...)
}

// Debug logs a verbose entry, only enabled when debugging.
func (p *RoverLog) Debug(format string, args ...interface{}) {
	p.log.Debugf(format, args...)
}

// GetLevel returns the currently configured logrus level.
func (p *RoverLog) GetLevel() logrus.Level {
	return p.log.GetLevel()
}

// GetLogger returns the named logger, creating it on first use. Each
// subsystem (ethrover, liskrover, sync, rpcclient, ...) gets its own
// named logger so log lines can be filtered per component.
func GetLogger(name string, console bool) *RoverLog {
	getLogMutex.Lock()
	defer getLogMutex.Unlock()

	if logMap == nil {
		logMap = make(map[string]*RoverLog)
	}

	if cur, ok := logMap[name]; ok {
		return cur
	}

	logrus.SetFormatter(&logrus.TextFormatter{})
	l := logrus.New()

	if console {
		l.Out = os.Stdout
	} else {
		if err := os.MkdirAll(Folder, os.ModePerm); err != nil {
			panic(fmt.Sprintf("creating log dir failed: %s", err.Error()))
		}

		fullPath := filepath.Join(Folder, FileName)
		f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, os.ModePerm)
		if err != nil {
			panic(fmt.Sprintf("opening log file failed: %s", err.Error()))
		}
		l.Out = f
	}

	if IsDebug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	l.AddHook(&CallerHook{module: name})

	cur := &RoverLog{log: l}
	logMap[name] = cur
	return cur
}

// IsDebug toggles debug-level logging process-wide; set from config at
// startup before the first GetLogger call.
var IsDebug = false
