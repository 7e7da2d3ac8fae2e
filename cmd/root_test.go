package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vle-sim/vle/config"
)

const describeTestYAML = `
dynamics:
  - id: beep
    package: demo
    library: beep
views:
  - name: ticks
    output: mem
    triggers: [timed]
    timestep: 1
outputs:
  - name: mem
    plugin: matrix
    location: memory
model:
  name: top
  children:
    - name: beep
      atomic: true
      dynamics: beep
      outputs: [out]
experiment:
  begin: 0
  duration: 10
`

func TestDescribe_LoadsProjectModelTree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.yaml")
	if err := os.WriteFile(path, []byte(describeTestYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	project, err := config.LoadProject(path)
	if err != nil {
		t.Fatal(err)
	}
	if project.Model.Name != "top" {
		t.Fatalf("model name = %q, want top", project.Model.Name)
	}
	if len(project.Model.Children) != 1 || project.Model.Children[0].Dynamics != "beep" {
		t.Fatalf("unexpected children: %+v", project.Model.Children)
	}
}

func TestResolveHome_PrefersFlagOverEnv(t *testing.T) {
	homeFlag = "/explicit/home"
	defer func() { homeFlag = "" }()
	home, err := resolveHome()
	if err != nil {
		t.Fatal(err)
	}
	if home != "/explicit/home" {
		t.Fatalf("home = %q, want /explicit/home", home)
	}
}
