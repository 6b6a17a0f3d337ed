package internal

import (
	"github.com/sirupsen/logrus"
)

// log is the internal trace logger. It stays at Warn unless the
// driver turns on debugging; language output never goes through it.
var log = logrus.New()

var debugTraceExecution bool

func init() {
	log.SetLevel(logrus.WarnLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// SetDebug turns on execution tracing: scanned-token and statement
// counts, the disassembly of every compiled chunk, and a per-cycle
// trace of the VM dispatch loop.
func SetDebug(enabled bool) {
	debugTraceExecution = enabled
	if enabled {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
}
