// Package interp is the executor: it expands and runs a parsed program
// against a live environment and working directory, forking external
// commands, wiring pipelines and redirections, and dispatching
// built-ins.
package interp

import (
	"fmt"
	"os"

	"github.com/justinmayhew/msh/cwd"
	"github.com/justinmayhew/msh/expand"
	"github.com/justinmayhew/msh/syntax"
)

// FatalError marks an evaluation error that the statement evaluator
// cannot recover from in place: the caller decides, per spec.md §7,
// whether that means aborting the whole run (script mode) or just
// printing and resuming the next statement (REPL mode).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// Runner evaluates a Program against a live environment, working
// directory, and set of standard streams. Zero values of Stdin,
// Stdout, and Stderr mean "the process's own," matched lazily by the
// stdin/stdout/stderr accessors so tests can substitute pipes.
type Runner struct {
	Env *expand.Environ
	Dir *cwd.Dir

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Last is the most recently observed Status, the block's "running
	// value" described in spec.md §4.6.
	Last Status
}

// NewRunner builds a Runner wired to the process's real environment,
// working directory, and standard streams.
func NewRunner() (*Runner, error) {
	dir, err := cwd.New()
	if err != nil {
		return nil, err
	}
	return &Runner{Env: expand.NewEnviron(), Dir: dir}, nil
}

func (r *Runner) stdin() *os.File  { return firstNonNil(r.Stdin, os.Stdin) }
func (r *Runner) stdout() *os.File { return firstNonNil(r.Stdout, os.Stdout) }
func (r *Runner) stderr() *os.File { return firstNonNil(r.Stderr, os.Stderr) }

// Run evaluates every statement in block in order, updating r.Last
// after each one. It stops early and returns a *builtinExitError if
// exit was reached, or a *FatalError if a statement's evaluation
// failed in a way spec.md treats as unrecoverable within the block.
func (r *Runner) Run(block syntax.Block) error {
	for _, stmt := range block {
		if err := r.runStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runStmt(stmt syntax.Stmt) error {
	switch stmt.Kind {
	case syntax.CommandStmt:
		return r.runCommand(stmt.Command)

	case syntax.IfStmt:
		status, err := r.runTest(stmt.Test)
		if err != nil {
			return err
		}
		if status.IsSuccess() {
			return r.Run(stmt.Consequent)
		}
		if stmt.Alternate != nil {
			return r.Run(stmt.Alternate)
		}
		return nil

	case syntax.WhileStmt:
		for {
			status, err := r.runTest(stmt.Test)
			if err != nil {
				return err
			}
			if !status.IsSuccess() {
				return nil
			}
			if err := r.Run(stmt.Body); err != nil {
				return err
			}
		}

	case syntax.ExportStmt:
		for _, exp := range stmt.Exports {
			if exp.Value != nil {
				v, err := expand.Word(*exp.Value, r.Env)
				if err != nil {
					return &FatalError{Err: err}
				}
				r.Env.Export(exp.Name, &v)
			} else {
				r.Env.Export(exp.Name, nil)
			}
		}
		r.Last = Success
		return nil

	case syntax.AssignStmt:
		for _, pair := range stmt.Assigns {
			v, err := expand.Word(pair.Value, r.Env)
			if err != nil {
				return &FatalError{Err: err}
			}
			r.Env.Assign(pair.Name, v)
		}
		r.Last = Success
		return nil

	default:
		panic("interp: unknown statement kind")
	}
}

// runTest evaluates an if/while test command and reports its Status,
// the same way any other command statement would, without touching
// r.Last (the test's status is consumed by the control-flow construct,
// not exposed as the block's running value).
func (r *Runner) runTest(test *syntax.Command) (Status, error) {
	saved := r.Last
	if err := r.runCommand(test); err != nil {
		return Failure, err
	}
	status := r.Last
	r.Last = saved
	return status, nil
}

func (r *Runner) runCommand(cmd *syntax.Command) error {
	ec, err := ExpandCommand(cmd, r.Env)
	if err != nil {
		r.Last = Failure
		return &FatalError{Err: err}
	}

	if ec.Pipeline != nil {
		if hasCommand(ec, "cd") {
			r.Last = Failure
			return &FatalError{Err: fmt.Errorf("cd: cannot be used in a pipeline")}
		}
		status, err := r.runPipeline(ec)
		r.Last = status
		return err
	}

	if isBuiltin(ec.Name) {
		status, err := r.runBuiltin(ec)
		r.Last = status
		return err
	}

	status, err := r.runPipeline(ec)
	r.Last = status
	return err
}
