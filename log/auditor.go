package log

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var globalAuditorID uint64

// Auditor logs a sequence of steps with the elapsed time between each,
// useful for tracing the latency of a resync session or a batch dispatch.
type Auditor struct {
	id        uint64
	log       *RoverLog
	method    string
	enterTime time.Time
	lastTime  time.Time
}

// NewAuditor returns a new auditor bound to the given logger.
func NewAuditor(log *RoverLog, lastTime ...time.Time) *Auditor {
	a := &Auditor{
		id:  atomic.AddUint64(&globalAuditorID, 1),
		log: log,
	}

	if len(lastTime) == 0 {
		a.lastTime = time.Now()
	} else {
		a.lastTime = lastTime[0]
	}

	return a
}

// Audit logs a step along with the time elapsed since the previous one.
func (a *Auditor) Audit(format string, args ...interface{}) {
	if a.log.GetLevel() > logrus.DebugLevel {
		return
	}

	now := time.Now()
	a.log.Debug("[audit] [%v] %v (elapsed: %v)", a.id, fmt.Sprintf(format, args...), now.Sub(a.lastTime))
	a.lastTime = now
}

// AuditEnter logs entry into a named method.
func (a *Auditor) AuditEnter(method string) {
	if a.log.GetLevel() > logrus.DebugLevel {
		return
	}

	a.method = method
	a.enterTime = time.Now()
	a.log.Debug("[audit] [%v] enter %v (elapsed: %v)", a.id, method, a.enterTime.Sub(a.lastTime))
}

// AuditLeave logs exit from the method previously entered.
func (a *Auditor) AuditLeave() {
	if a.log.GetLevel() > logrus.DebugLevel {
		return
	}

	a.log.Debug("[audit] [%v] leave %v (elapsed: %v)", a.id, a.method, time.Since(a.enterTime))
}
