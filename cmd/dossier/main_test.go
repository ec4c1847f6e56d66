package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/HendryAvila/dossier/internal/engine"
	"github.com/HendryAvila/dossier/internal/simulate"
	"github.com/fatih/color"
)

func TestVersionCmd(t *testing.T) {
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "dossier v") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSimulateCmd(t *testing.T) {
	color.NoColor = true
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DOSSIER_DATA_DIR", t.TempDir())

	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"simulate", "--runs", "25", "--seed", "5", "--workers", "3"})

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	for _, want := range []string{"Simulated 25 runs", "Leading category", "Clearance", "Top Secret", "Method of operation"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestByCount(t *testing.T) {
	got := byCount(map[string]int{"b": 2, "a": 2, "c": 5})
	if strings.Join(got, ",") != "c,a,b" {
		t.Errorf("byCount = %v", got)
	}
}

func TestPercent(t *testing.T) {
	if percent(1, 4) != "25.0%" || percent(3, 0) != "0%" {
		t.Errorf("percent = %s / %s", percent(1, 4), percent(3, 0))
	}
}

func TestPrintSummary_NoneLeader(t *testing.T) {
	color.NoColor = true
	eng, err := engine.NewDefault()
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	printSummary(&out, eng, simulate.Summary{
		Runs:     2,
		Leaders:  map[string]int{"none": 2},
		Tiers:    map[string]int{"Civilian": 2},
		Patterns: map[string]int{"adaptive": 2},
	})
	if !strings.Contains(out.String(), "none") || !strings.Contains(out.String(), "100.0%") {
		t.Errorf("summary = %s", out.String())
	}
}
