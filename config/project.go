// Package config loads an in-memory project description :
// dynamics list, conditions, observables, views, outputs, model graph and
// experiment window, then wires it into a graph.CoupledModel plus the
// coordinator/observation packages' input types. Grounded on the
// teacher's sim/config.go (grouped, field-documented option structs) and
// cmd/default_config.go (yaml.v3 strict decoding via KnownFields(true)).
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DynamicsEntry names one loadable dynamics factory ").
type DynamicsEntry struct {
	ID string `yaml:"id"`
	Package string `yaml:"package"`
	Library string `yaml:"library"`
}

// ConditionEntry supplies per-port initialization values for whichever
// atomic models reference its id.
type ConditionEntry struct {
	ID string                   `yaml:"id"`
	Ports map[string][]interface{} `yaml:"ports"`
}

// ObservableEntry maps an atomic model's ports to the views that should
// sample them.
type ObservableEntry struct {
	ID string              `yaml:"id"`
	Ports map[string][]string `yaml:"ports"`
}

// ViewEntry describes one named observation stream.
type ViewEntry struct {
	Name string   `yaml:"name"`
	Output string   `yaml:"output"`
	Triggers []string `yaml:"triggers"`
	Timestep *int64   `yaml:"timestep"`
	Enabled  *bool    `yaml:"enabled"`
}

// OutputEntry names one output plugin instantiation ").
type OutputEntry struct {
	Name string                 `yaml:"name"`
	Plugin string                 `yaml:"plugin"`
	Location string                 `yaml:"location"`
	Data map[string]interface{} `yaml:"data"`
}

// InputConnEntry wires one of the containing coupled model's own input
// ports to a child's input port.
type InputConnEntry struct {
	ParentPort string `yaml:"parent_port"`
	Child string `yaml:"child"`
	ChildPort string `yaml:"child_port"`
}

// OutputConnEntry wires a child's output port to one of the containing
// coupled model's own output ports.
type OutputConnEntry struct {
	Child string `yaml:"child"`
	ChildPort string `yaml:"child_port"`
	ParentPort string `yaml:"parent_port"`
}

// InternalConnEntry wires one child's output port to a sibling's input
// port.
type InternalConnEntry struct {
	FromChild string `yaml:"from_child"`
	FromPort string `yaml:"from_port"`
	ToChild string `yaml:"to_child"`
	ToPort string `yaml:"to_port"`
}

// ModelNode is one node of the model graph: either a leaf atomic model
// (Atomic true) or a coupled model with children and connections.
type ModelNode struct {
	Name string      `yaml:"name"`
	Atomic bool        `yaml:"atomic"`
	Dynamics string      `yaml:"dynamics"`
	Observable string      `yaml:"observable"`
	Conditions []string    `yaml:"conditions"`
	Inputs     []string    `yaml:"inputs"`
	Outputs    []string    `yaml:"outputs"`
	Children   []ModelNode `yaml:"children"`

	InputConns    []InputConnEntry    `yaml:"input_connections"`
	OutputConns   []OutputConnEntry   `yaml:"output_connections"`
	InternalConns []InternalConnEntry `yaml:"internal_connections"`
}

// Experiment is the (begin, duration) window
type Experiment struct {
	Begin int64 `yaml:"begin"`
	Duration int64 `yaml:"duration"`
}

// Project is the full parsed project description.
type Project struct {
	Dynamics    []DynamicsEntry   `yaml:"dynamics"`
	Conditions  []ConditionEntry  `yaml:"conditions"`
	Observables []ObservableEntry `yaml:"observables"`
	Views       []ViewEntry       `yaml:"views"`
	Outputs     []OutputEntry     `yaml:"outputs"`
	Model ModelNode         `yaml:"model"`
	Experiment Experiment        `yaml:"experiment"`
}

// LoadProject reads and strictly decodes a project YAML file, rejecting
// unknown top-level fields (matching KnownFields(true)
// idiom — typos must cause errors, not silent drops).
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading project file: %w", err)
	}
	var p Project
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("config: parsing project YAML: %w", err)
	}
	return &p, nil
}
