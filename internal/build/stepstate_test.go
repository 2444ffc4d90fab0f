package build

import (
	"slices"
	"testing"

	"github.com/cruciblehq/doe/internal/image"
)

func TestNewStepState(t *testing.T) {
	s := newStepState()
	if s.workdir != "" {
		t.Fatalf("workdir = %q, want empty", s.workdir)
	}
	if len(s.env) != 0 {
		t.Fatalf("env = %v, want empty", s.env)
	}
	if s.entrypoint != nil || s.cmd != nil {
		t.Fatal("entrypoint and cmd should be unset")
	}
}

func TestApply(t *testing.T) {
	s := newStepState()

	s.apply(image.Step{Workdir: "/app"})
	if s.workdir != "/app" {
		t.Fatalf("workdir = %q, want /app", s.workdir)
	}

	s.apply(image.Step{Env: map[string]string{"A": "1", "B": "2"}})
	if s.env["A"] != "1" || s.env["B"] != "2" {
		t.Fatalf("env = %v, want A=1 B=2", s.env)
	}
	if s.workdir != "/app" {
		t.Fatalf("workdir changed to %q after env apply", s.workdir)
	}

	s.apply(image.Step{Env: map[string]string{"A": "override"}})
	if s.env["A"] != "override" {
		t.Fatalf("env[A] = %q, want override", s.env["A"])
	}
	if s.env["B"] != "2" {
		t.Fatalf("env[B] = %q, want 2 (preserved)", s.env["B"])
	}
}

func TestApplyEmptyFieldsNoOp(t *testing.T) {
	s := newStepState()
	s.apply(image.Step{Workdir: "/opt"})
	s.applyConfig(image.Step{User: "alice", Cmd: []string{"run"}})
	s.apply(image.Step{})
	s.applyConfig(image.Step{})
	if s.workdir != "/opt" {
		t.Fatalf("workdir = %q, want /opt", s.workdir)
	}
	if s.user != "alice" {
		t.Fatalf("user = %q, want alice", s.user)
	}
	if !slices.Equal(s.cmd, []string{"run"}) {
		t.Fatalf("cmd = %v, want [run]", s.cmd)
	}
}

func TestApplyConfigEmptySliceClears(t *testing.T) {
	s := newStepState()
	s.applyConfig(image.Step{Entrypoint: []string{"/init"}})
	s.applyConfig(image.Step{Entrypoint: []string{}})
	if s.entrypoint == nil || len(s.entrypoint) != 0 {
		t.Fatalf("entrypoint = %#v, want empty non-nil", s.entrypoint)
	}
}

func TestStepStateResolve(t *testing.T) {
	s := newStepState()
	s.apply(image.Step{
		Workdir: "/app",
		Env:     map[string]string{"A": "1"},
	})

	resolved := s.resolve(image.Step{Workdir: "/tmp"})

	if resolved.workdir != "/tmp" {
		t.Fatalf("resolved.workdir = %q, want /tmp", resolved.workdir)
	}
	if s.workdir != "/app" {
		t.Fatalf("persistent workdir mutated to %q", s.workdir)
	}
}

func TestStepStateResolveInheritsWorkdir(t *testing.T) {
	s := newStepState()
	s.apply(image.Step{Workdir: "/app"})

	resolved := s.resolve(image.Step{})
	if resolved.workdir != "/app" {
		t.Fatalf("workdir = %q, want /app", resolved.workdir)
	}
}

func TestStepStateResolveDropsCopyEnv(t *testing.T) {
	s := newStepState()
	s.apply(image.Step{Env: map[string]string{"K": "base"}})

	resolved := s.resolve(image.Step{Env: map[string]string{"K": "override", "B": "2"}})
	if len(resolved.env) != 0 {
		t.Fatalf("resolved.env = %v, want empty", resolved.env)
	}
	if s.env["K"] != "base" {
		t.Fatalf("persistent env[K] mutated to %q", s.env["K"])
	}
	if _, ok := s.env["B"]; ok {
		t.Fatal("copy step env leaked into persistent state")
	}
}
