package chart

import (
	"strings"
	"testing"

	"github.com/p-n-ai/competency-compass/internal/comparison"
)

func testResult(t *testing.T, bodies ...string) *comparison.Result {
	t.Helper()
	var sources []comparison.Source
	for i, b := range bodies {
		sources = append(sources, comparison.Source{
			Name:   []string{"alice.csv", "bob.csv", "carol.csv"}[i],
			Reader: strings.NewReader(b),
		})
	}
	res, err := comparison.Run(comparison.Combined, sources)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return res
}

func TestNewDataset(t *testing.T) {
	res := testResult(t,
		"Topic,Selected Bloom Level\nT1,Apply\nT2,Remember\n",
		"Topic,Selected Bloom Level\nT1,Analyse\nT2,Analyze\n",
	)

	ds := NewDataset(res)

	if strings.Join(ds.Topics, ",") != "T1,T2" {
		t.Errorf("Topics = %v", ds.Topics)
	}
	if strings.Join(ds.Series, ",") != "alice.csv,bob.csv" {
		t.Errorf("Series = %v", ds.Series)
	}
	if p := ds.Cells[0][0]; p.Rank != 3 || !p.Ranked || p.Series != "alice.csv" {
		t.Errorf("Cells[0][0] = %+v, want rank 3", p)
	}
	if p := ds.Cells[0][1]; p.Rank != 4 || !p.Ranked {
		t.Errorf("Cells[0][1] = %+v, want rank 4", p)
	}
	if ds.Cells[1][1].Ranked {
		t.Error("Cells[1][1] should be a gap")
	}
	if len(ds.Points()) != 4 {
		t.Errorf("len(Points()) = %d, want 4", len(ds.Points()))
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	if got := strings.Join(r.Names(), ","); got != "bar,radar,vegalite" {
		t.Errorf("Names() = %q", got)
	}
	if _, ok := r.Get("pie"); ok {
		t.Error("Get(pie) should not be found")
	}

	r.Register(NewBarRenderer())
	if len(r.Names()) != 3 {
		t.Errorf("re-registering should not duplicate names: %v", r.Names())
	}

	if _, err := r.RenderString("pie", Dataset{}); err == nil {
		t.Error("RenderString(pie) should fail")
	}
}

func TestBackendsFor(t *testing.T) {
	if got := BackendsFor(comparison.Legacy); len(got) != 1 || got[0] != BackendBar {
		t.Errorf("BackendsFor(Legacy) = %v, want [bar]", got)
	}
	if got := BackendsFor(comparison.Combined); len(got) != 3 {
		t.Errorf("BackendsFor(Combined) = %v, want three backends", got)
	}
}
