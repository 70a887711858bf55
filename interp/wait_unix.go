//go:build unix

package interp

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/justinmayhew/msh/internal/shlog"
)

// sigCh carries SIGCHLD/SIGINT/SIGQUIT to reapPipeline. It is
// registered once at package init, before any child ever runs: a child
// that forks and exits within microseconds of cmd.Start() must not be
// able to raise SIGCHLD before something is listening for it, or
// reapPipeline would block forever on a signal that already fired and
// was discarded. Registering per-pipeline-call (as opposed to once,
// here) would reopen exactly that race between cmd.Start() and
// signal.Notify.
var sigCh = make(chan os.Signal, 64)

func init() {
	signal.Notify(sigCh, syscall.SIGCHLD, syscall.SIGINT, syscall.SIGQUIT)
}

// reapPipeline blocks until every pid in pids has exited, following the
// signal discipline of spec.md §5: SIGINT, SIGQUIT, and SIGCHLD are
// blocked (here: diverted to a channel, which has the same effect as
// sigprocmask+sigwait — the signal is caught rather than acted on by
// its default disposition) while children run. SIGINT/SIGQUIT are
// otherwise ignored by the shell itself, since the foreground process
// group receives and handles them directly. On SIGCHLD the pending
// zombies are drained with a non-blocking wait loop; the exit status of
// the child whose pid equals lastPid becomes the pipeline's Status.
//
// Before waiting on a signal, reapPipeline first drains any already-
// exited children with a non-blocking poll: pids may have finished
// between cmd.Start() and this call, with their SIGCHLD already
// consumed by a previous reapPipeline invocation's drain loop.
func reapPipeline(pids []int, lastPid int) Status {
	remaining := make(map[int]bool, len(pids))
	for _, p := range pids {
		remaining[p] = true
	}

	status := Success
	drain := func() {
		for {
			var ws unix.WaitStatus
			pid, err := unix.Wait4(-1, &ws, unix.WNOHANG, nil)
			if err != nil || pid <= 0 {
				// err: ECHILD, no children left at all.
				// pid == 0: WNOHANG found nothing ready yet.
				return
			}
			if !remaining[pid] {
				// Reaped by an earlier call, or not one of ours.
				continue
			}
			delete(remaining, pid)
			shlog.Reap(pid, ws.ExitStatus())
			if pid == lastPid {
				status = statusFromWaitStatus(ws)
			}
		}
	}

	drain()
	for len(remaining) > 0 {
		sig := <-sigCh
		if sig != syscall.SIGCHLD {
			continue
		}
		drain()
	}
	return status
}

func statusFromWaitStatus(ws unix.WaitStatus) Status {
	if ws.Exited() {
		return FromExitCode(ws.ExitStatus())
	}
	// Signaled or stopped: the original child died abnormally.
	return Failure
}
