// Package shlog is the shell's debug instrumentation: a single logrus
// logger, silent unless MSH_DEBUG is set, with trace points at the
// fork/exec/wait/redirect boundaries the original implementation logs
// via env_logger's debug!() macro.
package shlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.SetLevel(logrus.WarnLevel)
	if _, ok := os.LookupEnv("MSH_DEBUG"); ok {
		l.SetLevel(logrus.DebugLevel)
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return l
}

// Fork logs a pipeline stage about to be started.
func Fork(name string, args []string) {
	log.WithFields(logrus.Fields{"name": name, "args": args}).Debug("spawning command")
}

// Exec logs the resolved path an unqualified command name searched to.
func Exec(name, path string) {
	log.WithFields(logrus.Fields{"name": name, "path": path}).Debug("resolved via PATH")
}

// Redirect logs a redirect being applied to a spawned command.
func Redirect(kind string, path string) {
	log.WithFields(logrus.Fields{"kind": kind, "path": path}).Debug("applying redirect")
}

// Reap logs a child's reap outcome.
func Reap(pid int, status int) {
	log.WithFields(logrus.Fields{"pid": pid, "status": status}).Debug("reaped child")
}

// Wait logs entry into the blocking signal-wait loop.
func Wait(pids []int) {
	log.WithField("pids", pids).Debug("entering wait loop")
}
