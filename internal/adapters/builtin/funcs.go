package builtin

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/zerr"
)

// Write stores the "contents" argument as the task output.
func Write(_ context.Context, call *domain.Call) error {
	contents, err := argument(call, "contents", 0)
	if err != nil {
		return err
	}
	return call.Store.Write(call.Output, []byte(contents.Text()))
}

// Hello reads the file named by the "filepath" argument and writes
// "hello <contents>".
func Hello(_ context.Context, call *domain.Call) error {
	in, err := argument(call, "filepath", 0)
	if err != nil {
		return err
	}

	data, err := call.Store.Read(domain.NewPath(in.Text()))
	if err != nil {
		return err
	}
	return call.Store.Write(call.Output, append([]byte("hello "), data...))
}

// Concat writes the contents of every file in the "inputs" sequence, in order.
func Concat(_ context.Context, call *domain.Call) error {
	inputs, err := argument(call, "inputs", 0)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, item := range inputs.Items() {
		data, err := call.Store.Read(domain.NewPath(item.Text()))
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	return call.Store.Write(call.Output, buf.Bytes())
}

// Copy duplicates the file named by the "src" argument.
func Copy(_ context.Context, call *domain.Call) error {
	src, err := argument(call, "src", 0)
	if err != nil {
		return err
	}

	data, err := call.Store.Read(domain.NewPath(src.Text()))
	if err != nil {
		return err
	}
	return call.Store.Write(call.Output, data)
}

// Shell returns a function running the "command" argument. A string command
// is passed to sh -c; a sequence is executed as an argument vector.
//
// The command sees OUTPUT set to the output path and INPUT_<NAME> for every
// other path-valued named argument, which includes materialized task
// references.
func Shell(executor ports.Executor) domain.Func {
	return func(ctx context.Context, call *domain.Call) error {
		command, err := argument(call, "command", 0)
		if err != nil {
			return err
		}

		var argv []string
		if command.Kind() == domain.KindSequence {
			for _, item := range command.Items() {
				argv = append(argv, item.Text())
			}
		} else {
			argv = []string{"sh", "-c", command.Text()}
		}

		return executor.Execute(ctx, argv, shellEnv(call), "")
	}
}

func shellEnv(call *domain.Call) map[string]string {
	env := map[string]string{"OUTPUT": call.Output.String()}
	for name, v := range call.Kwargs.All() {
		if name == domain.OutputKey {
			continue
		}
		if p, ok := v.Path(); ok {
			env["INPUT_"+envName(name)] = p.String()
		}
	}
	for i, v := range call.Args {
		if p, ok := v.Path(); ok {
			env["INPUT_"+strconv.Itoa(i)] = p.String()
		}
	}
	return env
}

func envName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

// argument returns the named argument, falling back to the positional one.
func argument(call *domain.Call, name string, pos int) (domain.Value, error) {
	if v, ok := call.Kwarg(name); ok {
		return v, nil
	}
	if pos < len(call.Args) {
		return call.Args[pos], nil
	}
	return domain.Value{}, zerr.With(zerr.Wrap(domain.ErrMissingArgument, "argument not provided"), "argument", name)
}
