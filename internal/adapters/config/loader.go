// Package config provides the pipeline file loader for mill.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the pipeline file looked up when Load is given a directory.
const DefaultFilename = "mill.yaml"

// SupportedVersion is the only accepted value of the version field.
const SupportedVersion = "1"

const (
	refKey = "ref"
	setTag = "!!set"
)

// Loader implements ports.ConfigLoader for YAML pipeline files.
type Loader struct {
	funcs ports.FuncResolver
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a Loader resolving function names through funcs.
func NewLoader(funcs ports.FuncResolver) *Loader {
	return &Loader{funcs: funcs}
}

// Load reads the pipeline file at path, or DefaultFilename inside path when
// it is a directory, and returns the populated pipeline.
//
// The working directory is resolved relative to the file's directory and
// defaults to it.
func (l *Loader) Load(path string) (*domain.Pipeline, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFilename)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file Millfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	if file.Version != "" && file.Version != SupportedVersion {
		return nil, zerr.With(zerr.New("unsupported config version"), "version", file.Version)
	}

	workdir := file.Workdir
	if !filepath.IsAbs(workdir) {
		workdir = filepath.Join(filepath.Dir(path), workdir)
	}

	policy := domain.DuplicateWarn
	if file.Strict {
		policy = domain.DuplicateStrict
	}

	p := domain.NewPipeline(domain.WithWorkingDir(workdir), domain.WithDuplicatePolicy(policy))
	for i := range file.Tasks {
		if err := l.declare(p, &file.Tasks[i]); err != nil {
			return nil, zerr.With(err, "task_index", i)
		}
	}

	return p, nil
}

func (l *Loader) declare(p *domain.Pipeline, dto *TaskDTO) error {
	if dto.External != "" {
		if dto.Func != "" {
			return zerr.With(zerr.New("task declares both external and func"), "external", dto.External)
		}
		_, err := domain.NewExternalTask(dto.External, domain.InPipeline(p))
		return err
	}

	fn, ok := l.funcs.Lookup(dto.Func)
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrUnknownFunc, "function is not registered"), "func", dto.Func)
		return zerr.With(err, "available", l.funcs.Names())
	}

	name := dto.Name
	if name == "" {
		name = dto.Func
	}
	opts := []domain.TaskOption{domain.WithName(name), domain.InPipeline(p)}

	for i := range dto.Args {
		v, err := toValue(p, &dto.Args[i])
		if err != nil {
			return err
		}
		opts = append(opts, domain.WithArgs(v))
	}

	if dto.Kwargs.Kind != 0 {
		kwargs := resolveAlias(&dto.Kwargs)
		if kwargs.Kind != yaml.MappingNode {
			return zerr.With(zerr.New("kwargs must be a mapping"), "line", dto.Kwargs.Line)
		}
		for i := 0; i+1 < len(kwargs.Content); i += 2 {
			v, err := toValue(p, kwargs.Content[i+1])
			if err != nil {
				return err
			}
			opts = append(opts, domain.WithKwarg(kwargs.Content[i].Value, v))
		}
	}

	_, err := domain.NewTask(fn, opts...)
	return err
}

// toValue converts a YAML node into an argument value. A mapping with the
// single key "ref" references the task declared with that output.
func toValue(p *domain.Pipeline, node *yaml.Node) (domain.Value, error) {
	node = resolveAlias(node)

	switch node.Kind {
	case yaml.SequenceNode:
		items, err := toValues(p, node.Content)
		if err != nil {
			return domain.Value{}, err
		}
		if node.Tag == setTag {
			return domain.SetOf(items...), nil
		}
		return domain.Seq(items...), nil

	case yaml.MappingNode:
		if len(node.Content) == 2 && node.Content[0].Value == refKey {
			return reference(p, node.Content[1])
		}
		if node.Tag == setTag {
			keys := make([]*yaml.Node, 0, len(node.Content)/2)
			for i := 0; i < len(node.Content); i += 2 {
				keys = append(keys, node.Content[i])
			}
			items, err := toValues(p, keys)
			if err != nil {
				return domain.Value{}, err
			}
			return domain.SetOf(items...), nil
		}

		entries := make([]domain.Entry, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, err := toValue(p, node.Content[i])
			if err != nil {
				return domain.Value{}, err
			}
			value, err := toValue(p, node.Content[i+1])
			if err != nil {
				return domain.Value{}, err
			}
			entries = append(entries, domain.Entry{Key: key, Value: value})
		}
		return domain.Map(entries...), nil

	default:
		var x any
		if err := node.Decode(&x); err != nil {
			return domain.Value{}, zerr.With(zerr.Wrap(err, "failed to decode value"), "line", node.Line)
		}
		return domain.Scalar(x), nil
	}
}

func toValues(p *domain.Pipeline, nodes []*yaml.Node) ([]domain.Value, error) {
	values := make([]domain.Value, 0, len(nodes))
	for _, n := range nodes {
		v, err := toValue(p, n)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// reference resolves a ref the same way outputs are resolved: relative paths
// live under the pipeline's working directory.
func reference(p *domain.Pipeline, node *yaml.Node) (domain.Value, error) {
	output := domain.NewPath(node.Value)
	if !output.IsAbs() && !p.WorkingDir().IsZero() {
		output = p.WorkingDir().Join(node.Value)
	}

	task, ok := p.Lookup(output)
	if !ok {
		err := zerr.Wrap(domain.ErrInvalidReference, "reference to an undeclared output")
		return domain.Value{}, zerr.With(zerr.With(err, "ref", node.Value), "line", node.Line)
	}
	return domain.Ref(task), nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
