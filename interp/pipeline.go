package interp

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/justinmayhew/msh/internal/shlog"
)

// flatten walks an ExpandedCommand's pipeline chain into a slice, in
// left-to-right order, the way the fork loop in spec.md §5 walks it.
func flatten(ec *ExpandedCommand) []*ExpandedCommand {
	var out []*ExpandedCommand
	for c := ec; c != nil; c = c.Pipeline {
		out = append(out, c)
	}
	return out
}

// hasCommand reports whether any stage of the chain headed by ec is
// named name.
func hasCommand(ec *ExpandedCommand, name string) bool {
	for c := ec; c != nil; c = c.Pipeline {
		if c.Name == name {
			return true
		}
	}
	return false
}

// runPipeline spawns every stage of the chain headed by ec, wiring a
// fresh anonymous pipe between each adjacent pair before forking the
// upstream side, then reaps every child and returns the last stage's
// exit status as the pipeline's Status.
func (r *Runner) runPipeline(ec *ExpandedCommand) (Status, error) {
	stages := flatten(ec)

	var pids []int
	var prevRead *os.File
	launchFailed := false

	for i, stage := range stages {
		path, err := lookPath(stage.Name, r.Env.Get("PATH"))
		if err != nil {
			if prevRead != nil {
				prevRead.Close()
			}
			fmt.Fprintln(r.stderr(), err)
			launchFailed = true
			break
		}

		shlog.Fork(stage.Name, stage.Args)
		if path != stage.Name {
			shlog.Exec(stage.Name, path)
		}

		cmd := exec.Command(path)
		cmd.Args = append([]string{stage.Name}, stage.Args...)
		cmd.Env = append(append([]string{}, r.Env.ExportedPairs()...), stage.Env...)
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		cmd.Stdin = firstNonNil(prevRead, r.stdin())
		cmd.Stdout = r.stdout()
		cmd.Stderr = r.stderr()

		var pipeWrite *os.File
		var nextRead *os.File
		if i < len(stages)-1 {
			pr, pw, perr := os.Pipe()
			if perr != nil {
				if prevRead != nil {
					prevRead.Close()
				}
				return Failure, fmt.Errorf("pipe: %w", perr)
			}
			cmd.Stdout = pw
			pipeWrite = pw
			nextRead = pr
		}

		open, err := applyRedirects(cmd, stage.Redirects)
		if err != nil {
			if prevRead != nil {
				prevRead.Close()
			}
			if pipeWrite != nil {
				pipeWrite.Close()
			}
			if nextRead != nil {
				nextRead.Close()
			}
			fmt.Fprintln(r.stderr(), err)
			launchFailed = true
			break
		}

		startErr := cmd.Start()
		open.closeAll()
		if prevRead != nil {
			prevRead.Close()
		}
		if pipeWrite != nil {
			pipeWrite.Close()
		}
		if startErr != nil {
			if nextRead != nil {
				nextRead.Close()
			}
			fmt.Fprintln(r.stderr(), startErr)
			launchFailed = true
			break
		}

		pids = append(pids, cmd.Process.Pid)
		prevRead = nextRead
	}

	if len(pids) == 0 {
		return Failure, nil
	}
	last := pids[len(pids)-1]
	shlog.Wait(pids)
	status := reapPipeline(pids, last)
	if launchFailed {
		return Failure, nil
	}
	return status, nil
}

func firstNonNil(f, fallback *os.File) *os.File {
	if f != nil {
		return f
	}
	return fallback
}
