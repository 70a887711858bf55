// msh is a small interactive/scripted command shell: it lexes,
// parses, and interprets shell statements from a REPL, a script file,
// or piped stdin, spawning children, wiring pipelines and
// redirections, and maintaining the working directory and exported
// environment.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/justinmayhew/msh/internal/config"
	"github.com/justinmayhew/msh/internal/history"
	"github.com/justinmayhew/msh/interp"
	"github.com/justinmayhew/msh/syntax"
)

// renderPrompt fills format's sole %s with the live working directory,
// the way spec.md §6's "<cwd> $ " prompt tracks every cd.
func renderPrompt(format, cwd string) string {
	return fmt.Sprintf(format, cwd)
}

const version = "msh 0.1.0"

const usage = `usage: msh [FILE]

With no FILE, reads from a terminal interactively or from a pipe as a
script. With FILE "-", reads a script from stdin. With any other FILE,
executes that file as a script.

  -h, --help     show this help and exit
  -V, --version  show version information and exit
`

func main() {
	os.Exit(main1())
}

// main1 is split out from main so tests can invoke it directly via
// testscript.RunMain, the way cmd/shfmt's tests do.
func main1() int {
	return run(os.Args[1:])
}

func run(args []string) int {
	switch {
	case len(args) == 1 && (args[0] == "-h" || args[0] == "--help"):
		fmt.Fprint(os.Stdout, usage)
		return 0
	case len(args) == 1 && (args[0] == "-V" || args[0] == "--version"):
		fmt.Fprintln(os.Stdout, version)
		return 0
	case len(args) > 1:
		fmt.Fprintln(os.Stderr, "msh: usage: msh [FILE]")
		return 1
	}

	runner, err := interp.NewRunner()
	if err != nil {
		fmt.Fprintln(os.Stderr, "msh:", err)
		return 1
	}

	if len(args) == 1 && args[0] != "-" {
		return runScriptFile(runner, args[0])
	}
	if len(args) == 1 {
		// FILE "-": always a script read from stdin, even if stdin is
		// a terminal.
		return runScript(runner, os.Stdin)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return runREPL(runner)
	}
	return runScript(runner, os.Stdin)
}

func runScriptFile(runner *interp.Runner, path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "msh:", err)
		return 1
	}
	defer f.Close()
	return runScript(runner, f)
}

// runScript implements script mode's fail-fast policy: the first
// parse or evaluation error aborts the program with exit 1.
func runScript(runner *interp.Runner, src io.Reader) int {
	data, err := io.ReadAll(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "msh:", err)
		return 1
	}

	prog, err := syntax.Parse(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, "msh:", err)
		return 1
	}

	if err := runner.Run(prog); err != nil {
		if code, ok := interp.ExitRequested(err); ok {
			return code
		}
		fmt.Fprintln(os.Stderr, "msh:", joinCauses(err))
		return 1
	}
	// No fatal error: the process's own exit status mirrors the last
	// statement's Status, the same way running a script file with any
	// POSIX shell does.
	if runner.Last.IsSuccess() {
		return 0
	}
	return 1
}

// runREPL implements REPL mode's policy: every error is caught at the
// outermost loop, printed, and the prompt resumes.
func runREPL(runner *interp.Runner) int {
	home := runner.Env.Get("HOME")
	cfg, err := config.Load(home)
	if err != nil {
		fmt.Fprintln(os.Stderr, "msh:", err)
		cfg = config.Default(home)
	}

	rl, err := history.NewInstance(renderPrompt(cfg.Prompt, runner.Dir.Current()), cfg.HistoryFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "msh:", err)
		return 1
	}
	defer rl.Close()

	for {
		rl.SetPrompt(renderPrompt(cfg.Prompt, runner.Dir.Current()))
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			// io.EOF (Ctrl-D): end of input.
			break
		}
		if line == "" {
			continue
		}

		prog, err := syntax.Parse([]byte(line))
		if err != nil {
			fmt.Fprintln(os.Stderr, "msh:", err)
			continue
		}

		if err := runner.Run(prog); err != nil {
			if code, ok := interp.ExitRequested(err); ok {
				return code
			}
			fmt.Fprintln(os.Stderr, "msh:", joinCauses(err))
		}
	}
	return 0
}

// joinCauses renders err's wrapped-error chain joined by ": ", the
// diagnostic format spec.md §7 requires for REPL-mode errors.
func joinCauses(err error) string {
	var parts []string
	for err != nil {
		msg := err.Error()
		if len(parts) == 0 || parts[len(parts)-1] != msg {
			parts = append(parts, msg)
		}
		err = errors.Unwrap(err)
	}
	if len(parts) <= 1 {
		if len(parts) == 1 {
			return parts[0]
		}
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ": " + p
	}
	return out
}
