package interp

import (
	"github.com/justinmayhew/msh/expand"
	"github.com/justinmayhew/msh/syntax"
)

// ExpandedRedirect is a Redirect whose path, if any, has already been
// expanded to a concrete string.
type ExpandedRedirect struct {
	Kind syntax.RedirectKind
	Path string
	Mode syntax.WriteMode
}

// ExpandedCommand is a Command with every word replaced by its
// expanded byte string: the name, each argument, each redirect's path,
// and each inline assignment's value. The pipeline successor is
// expanded recursively, forming the same exclusive chain as the AST.
type ExpandedCommand struct {
	Name      string
	Args      []string
	Redirects []ExpandedRedirect
	Env       []string // "NAME=value", ready to append to a child's env
	Pipeline  *ExpandedCommand
}

// Argv returns the name followed by the arguments, ready to become a
// child process's argv.
func (c *ExpandedCommand) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// ExpandCommand expands cmd against env, producing the runtime value
// the executor forks and execs.
func ExpandCommand(cmd *syntax.Command, env *expand.Environ) (*ExpandedCommand, error) {
	name, err := expand.Word(cmd.Name, env)
	if err != nil {
		return nil, err
	}

	args := make([]string, len(cmd.Args))
	for i, w := range cmd.Args {
		v, err := expand.Word(w, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	redirs := make([]ExpandedRedirect, len(cmd.Redirects))
	for i, r := range cmd.Redirects {
		er := ExpandedRedirect{Kind: r.Kind, Mode: r.Mode}
		switch r.Kind {
		case syntax.InFile, syntax.OutFile, syntax.ErrFile:
			v, err := expand.Word(r.Path, env)
			if err != nil {
				return nil, err
			}
			er.Path = v
		}
		redirs[i] = er
	}

	assigns := make([]string, len(cmd.Env))
	for i, pair := range cmd.Env {
		v, err := expand.Word(pair.Value, env)
		if err != nil {
			return nil, err
		}
		assigns[i] = pair.Name + "=" + v
	}

	ec := &ExpandedCommand{Name: name, Args: args, Redirects: redirs, Env: assigns}
	if cmd.Pipeline != nil {
		next, err := ExpandCommand(cmd.Pipeline, env)
		if err != nil {
			return nil, err
		}
		ec.Pipeline = next
	}
	return ec, nil
}
