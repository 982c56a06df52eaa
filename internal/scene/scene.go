package scene

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/reiki-home/reiki-core/internal/command"
	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/location"
)

// Step is one templated command inside a scene. Location is optional; when
// empty the location supplied to Resolve is substituted.
type Step struct {
	Device     device.Type       `yaml:"device" json:"device"`
	Action     device.Action     `yaml:"action" json:"action"`
	Location   location.Location `yaml:"location,omitempty" json:"location,omitempty"`
	Parameters map[string]any    `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Scene is an ordered list of steps with a fallback location for callers
// that do not supply one.
type Scene struct {
	Name            string            `yaml:"name" json:"name"`
	Description     string            `yaml:"description,omitempty" json:"description,omitempty"`
	DefaultLocation location.Location `yaml:"default_location,omitempty" json:"default_location,omitempty"`
	Steps           []Step            `yaml:"steps" json:"steps"`
}

// Resolver holds the scene table and turns names into command batches.
type Resolver struct {
	mu     sync.RWMutex
	scenes map[string]Scene
}

// NewResolver builds a resolver preloaded with the built-in scenes.
func NewResolver() *Resolver {
	r := &Resolver{scenes: make(map[string]Scene, len(builtins))}
	for _, s := range builtins {
		r.scenes[s.Name] = s
	}
	return r
}

// LoadFile merges scenes from a YAML file into the table. File entries
// override built-ins with the same name.
func (r *Resolver) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading scene file: %w", err)
	}
	var doc struct {
		Scenes []Scene `yaml:"scenes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing scene file: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range doc.Scenes {
		if s.Name == "" {
			return fmt.Errorf("%w: scene with empty name in %s", ErrInvalidScene, path)
		}
		if len(s.Steps) == 0 {
			return fmt.Errorf("%w: scene %q has no steps", ErrInvalidScene, s.Name)
		}
		r.scenes[s.Name] = s
	}
	return nil
}

// Resolve builds the command batch for a scene. loc overrides the step
// locations that are not pinned; when loc is empty the scene's default
// location applies.
func (r *Resolver) Resolve(name string, loc location.Location) ([]command.Command, error) {
	r.mu.RLock()
	s, ok := r.scenes[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSceneNotFound, name)
	}

	if loc == "" || loc == location.Current {
		loc = s.DefaultLocation
	}

	cmds := make([]command.Command, 0, len(s.Steps))
	for _, step := range s.Steps {
		target := step.Location
		if target == "" {
			target = loc
		}
		cmds = append(cmds, command.Command{
			Device:     step.Device,
			Action:     step.Action,
			Location:   target,
			Parameters: step.Parameters,
		})
	}
	return cmds, nil
}

// Get returns one scene definition by name.
func (r *Resolver) Get(name string) (Scene, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scenes[name]
	return s, ok
}

// Names returns all scene names, sorted.
func (r *Resolver) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
