package build

import (
	"maps"
	"slices"

	"github.com/cruciblehq/doe/internal/image"
)

// Tracks accumulated modifiers during step execution.
//
// State flows linearly through the step list. Standalone modifiers update
// the state permanently via apply. Copy steps read the effective values for
// a single step via resolve without modifying the persistent state. Config
// modifiers (user, entrypoint, cmd) are always persisted via applyConfig.
type stepState struct {
	workdir    string
	env        map[string]string
	user       string
	entrypoint []string
	cmd        []string
}

// Creates a new [stepState] with default values.
func newStepState() *stepState {
	return &stepState{
		env: make(map[string]string),
	}
}

// Persists modifier fields from a step into the state.
func (s *stepState) apply(step image.Step) {
	if step.Workdir != "" {
		s.workdir = step.Workdir
	}
	maps.Copy(s.env, step.Env)
}

// Persists the image config fields of a step.
func (s *stepState) applyConfig(step image.Step) {
	if step.User != "" {
		s.user = step.User
	}
	if step.Entrypoint != nil {
		s.entrypoint = slices.Clone(step.Entrypoint)
	}
	if step.Cmd != nil {
		s.cmd = slices.Clone(step.Cmd)
	}
}

// Returns a new [stepState] with step-level modifiers overlaid on the
// persistent state. The receiver is not modified.
//
// Only the working directory affects a copy, so the environment of a copy
// step is dropped and the resolved state carries no environment.
func (s *stepState) resolve(step image.Step) *stepState {
	resolved := &stepState{
		workdir:    s.workdir,
		user:       s.user,
		entrypoint: s.entrypoint,
		cmd:        s.cmd,
	}

	if step.Workdir != "" {
		resolved.workdir = step.Workdir
	}

	return resolved
}
