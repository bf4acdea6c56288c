package main

import (
	"bytes"
	"strings"
	"testing"

	"grimoires/internal/domain/models/grimoire"
)

func TestRenderTree(t *testing.T) {
	nodes := []*grimoire.Node{
		{ID: "1", Type: grimoire.NodeTypeFolder, Name: "Profils", Children: []*grimoire.Node{
			{ID: "2", Type: grimoire.NodeTypeFile, Name: "Guerrier", FileType: "profil"},
		}},
		{ID: "3", Type: grimoire.NodeTypeFile, Name: "Notes", FileType: "lieu"},
	}

	want := "Profils/\n  Guerrier [profil]\nNotes [lieu]\n"
	if got := renderTree(nodes); got != want {
		t.Errorf("renderTree() = %q, want %q", got, want)
	}
}

func TestRollCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRollCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--seed", "42", "/r", "3d6", "+", "2"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "3d6 + 2 = [") {
		t.Errorf("output = %q", out.String())
	}

	cmd = newRollCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"1d1"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for a one-sided die")
	}
}
