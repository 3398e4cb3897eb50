package log

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// depth is the number of stack frames between the caller's log.Info/... call
// and this hook. Needs to change if the call chain above changes.
const depth = 8

// CallerHook adds a caller field to each logrus entry.
type CallerHook struct {
	module string
}

// Fire implements logrus.Hook.
func (hook *CallerHook) Fire(entry *logrus.Entry) error {
	entry.Data["caller"] = hook.caller()
	entry.Data["module"] = hook.module
	return nil
}

// Levels implements logrus.Hook.
func (hook *CallerHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *CallerHook) caller() string {
	if _, file, line, ok := runtime.Caller(depth); ok {
		return strings.Join([]string{filepath.Base(file), strconv.Itoa(line)}, ":")
	}

	return ""
}
