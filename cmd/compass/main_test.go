package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/p-n-ai/competency-compass/internal/comparison"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCompare_Combined(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "alice.csv", "Topic,Selected Bloom Level\nT1,Apply\nT2,Create\n")
	b := writeFile(t, dir, "bob.csv", "Topic,Selected Bloom Level\nT1,Analyse\nT3,Apply\n")

	stdout, _, err := execute(t, "compare", a, b)
	if err != nil {
		t.Fatalf("compare error = %v", err)
	}
	if want := "Topic,alice.csv,bob.csv\nT1,Apply,Analyse\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestCompare_Cardinality(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "a.csv", "Topic,Selected Bloom Level\nT1,Apply\n")

	_, _, err := execute(t, "compare", f)
	if !errors.Is(err, comparison.ErrCardinality) {
		t.Errorf("err = %v, want ErrCardinality", err)
	}

	_, _, err = execute(t, "compare", f, f, f, f)
	if !errors.Is(err, comparison.ErrCardinality) {
		t.Errorf("err = %v, want ErrCardinality", err)
	}
}

func TestCompare_LegacyWithChart(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i, level := range []string{"Apply", "Analyse", "Frobnicate"} {
		files = append(files, writeFile(t, dir, string(rune('a'+i))+".csv", "Topic,Selected Bloom Level\nT1,"+level+"\n"))
	}
	out := filepath.Join(dir, "merged.csv")
	page := filepath.Join(dir, "chart.html")

	args := append([]string{"compare", "--legacy", "--out", out, "--chart", "bar", "--chart-out", page}, files...)
	stdout, stderr, err := execute(t, args...)
	if err != nil {
		t.Fatalf("compare error = %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty with --out", stdout)
	}
	if !strings.Contains(stderr, `"Frobnicate" is not a Bloom level`) {
		t.Errorf("stderr = %q, want an unmapped warning", stderr)
	}

	merged, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if want := "Topic,File 1,File 2,File 3\nT1,Apply,Analyse,Frobnicate\n"; string(merged) != want {
		t.Errorf("merged = %q, want %q", merged, want)
	}

	drawn, err := os.ReadFile(page)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(drawn), "echarts.init(") {
		t.Errorf("chart file does not hold an echarts page: %.40q", drawn)
	}
}

func TestCompare_ChartFlags(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "Topic,Selected Bloom Level\nT1,Apply\n")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown backend", []string{"compare", "--chart", "pie", "--chart-out", "x", a, a}},
		{"missing chart-out", []string{"compare", "--chart", "radar", a, a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLevels(t *testing.T) {
	stdout, _, err := execute(t, "levels")
	if err != nil {
		t.Fatalf("levels error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want header + 7", len(lines))
	}
	if strings.Fields(lines[1])[1] != "Unfamiliar" || strings.Fields(lines[7])[0] != "6" {
		t.Errorf("unexpected table:\n%s", stdout)
	}
}

func TestExportForm(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.csv", "Topic,Short description,Remember\nSequencing QC,Read quality,Names QC metrics\n")

	stdout, _, err := execute(t, "export-form", ref)
	if err != nil {
		t.Fatalf("export-form error = %v", err)
	}
	for _, want := range []string{"## Sequencing QC", "Read quality", "( ) Remember: Names QC metrics", "( ) Create: (no description)", "1 topics"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}
