package config

import "gopkg.in/yaml.v3"

// Millfile represents the structure of the mill.yaml pipeline file.
type Millfile struct {
	Version string    `yaml:"version"`
	Workdir string    `yaml:"workdir"`
	Strict  bool      `yaml:"strict"`
	Tasks   []TaskDTO `yaml:"tasks"`
}

// TaskDTO represents a single task declaration. Exactly one of External and
// Func is set. Arguments are kept as nodes so mapping order survives decoding.
type TaskDTO struct {
	External string      `yaml:"external"`
	Func     string      `yaml:"func"`
	Name     string      `yaml:"name"`
	Args     []yaml.Node `yaml:"args"`
	Kwargs   yaml.Node   `yaml:"kwargs"`
}
