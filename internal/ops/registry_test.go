/*
Copyright © 2025 3 Leaps (hello@3leaps.net and https://3leaps.net)
*/
package ops

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// TestRegistry_BasicRegistration tests basic command registration functionality
func TestRegistry_BasicRegistration(t *testing.T) {
	registry := NewRegistry()
	testCmd := &cobra.Command{Use: "import", Short: "Import a tree"}

	if err := registry.Register("import", GroupBuild, testCmd, "Import a directory tree"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	cmd, exists := registry.GetCommand("import")
	if !exists {
		t.Fatal("Expected command to exist after registration")
	}
	if cmd.Group != GroupBuild {
		t.Errorf("Expected command group 'build', got '%s'", cmd.Group)
	}
	if cmd.Description != "Import a directory tree" {
		t.Errorf("unexpected description %q", cmd.Description)
	}
	if cmd.Command != testCmd {
		t.Error("Expected command object to match registered command")
	}
}

// TestRegistry_DuplicateRegistration tests handling of duplicate command registration
func TestRegistry_DuplicateRegistration(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("tree", GroupInspect, &cobra.Command{Use: "tree"}, "first"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	err := registry.Register("tree", GroupBuild, &cobra.Command{Use: "tree"}, "second")
	if err == nil {
		t.Fatal("Expected error for duplicate registration")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("unexpected error: %v", err)
	}

	cmd, _ := registry.GetCommand("tree")
	if cmd.Group != GroupInspect {
		t.Errorf("Expected original command group to remain 'inspect', got '%s'", cmd.Group)
	}
}

func TestRegistry_UnknownGroup(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("x", CommandGroup("neat"), &cobra.Command{Use: "x"}, "x"); err == nil {
		t.Fatal("Expected error for unknown group")
	}
}

// TestRegistry_GetCommandsByGroup tests group-based command retrieval
func TestRegistry_GetCommandsByGroup(t *testing.T) {
	registry := NewRegistry()

	if cmds := registry.GetCommandsByGroup(GroupSupport); len(cmds) != 0 {
		t.Fatalf("expected empty group, got %d", len(cmds))
	}

	for _, r := range []struct {
		name  string
		group CommandGroup
	}{
		{"version", GroupSupport},
		{"tree", GroupInspect},
		{"import", GroupBuild},
		{"help", GroupSupport},
	} {
		if err := registry.Register(r.name, r.group, &cobra.Command{Use: r.name}, r.name); err != nil {
			t.Fatalf("register %s: %v", r.name, err)
		}
	}

	support := registry.GetCommandsByGroup(GroupSupport)
	if len(support) != 2 || support[0].Name != "help" || support[1].Name != "version" {
		t.Errorf("support commands not sorted by name: %+v", support)
	}

	counts := registry.ListGroups()
	if counts[GroupBuild] != 1 || counts[GroupInspect] != 1 || counts[GroupSupport] != 2 {
		t.Errorf("unexpected group counts: %v", counts)
	}
	if len(registry.GetAllCommands()) != 4 {
		t.Errorf("expected 4 commands")
	}
}

func TestCommandGroupTitle(t *testing.T) {
	if GroupBuild.Title() != "Build Commands" {
		t.Errorf("unexpected title %q", GroupBuild.Title())
	}
	if CommandGroup("other").Title() != "other" {
		t.Error("unknown groups should fall back to their name")
	}
}
