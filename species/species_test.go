package species

import (
	"strings"
	"testing"

	"github.com/pthm-cable/shoal/config"
)

func TestFromConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cat, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if cat.Len() != len(cfg.Species) {
		t.Fatalf("Len() = %d, want %d", cat.Len(), len(cfg.Species))
	}
	for i, rec := range cfg.Species {
		if cat.At(i).ID != rec.ID {
			t.Errorf("At(%d).ID = %q, want %q (order must be preserved)", i, cat.At(i).ID, rec.ID)
		}
	}
	if len(cat.Predators()) == 0 || len(cat.Prey()) == 0 {
		t.Error("default catalog should contain predators and prey")
	}
	pike, ok := cat.Get("pike")
	if !ok {
		t.Fatal("pike missing from default catalog")
	}
	if !pike.Predator {
		t.Error("pike should be a predator")
	}
	if pike.MaxSize() <= pike.AdultSize {
		t.Errorf("pike MaxSize %.1f should exceed AdultSize %.1f", pike.MaxSize(), pike.AdultSize)
	}
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name    string
		records []config.SpeciesConfig
		wantErr string
	}{
		{"empty", nil, "empty"},
		{"missing id", []config.SpeciesConfig{{AdultSize: 1, BaseSpeed: 1}}, "id is required"},
		{"zero size", []config.SpeciesConfig{{ID: "a", BaseSpeed: 1}}, "adult_size"},
		{"zero speed", []config.SpeciesConfig{{ID: "a", AdultSize: 1}}, "base_speed"},
		{"shrinking growth", []config.SpeciesConfig{{ID: "a", AdultSize: 1, BaseSpeed: 1, MaxGrowth: 0.5}}, "max_growth"},
		{"bad temperament", []config.SpeciesConfig{{ID: "a", AdultSize: 1, BaseSpeed: 1, Temperament: "sleepy"}}, "temperament"},
		{"duplicate", []config.SpeciesConfig{
			{ID: "a", AdultSize: 1, BaseSpeed: 1},
			{ID: "a", AdultSize: 2, BaseSpeed: 1},
		}, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.records)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestDescriptorDefaults(t *testing.T) {
	cat, err := NewCatalog([]config.SpeciesConfig{{ID: "koi", AdultSize: 30, BaseSpeed: 20}})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	d, _ := cat.Get("koi")
	if d.Name != "koi" {
		t.Errorf("Name = %q, want id fallback", d.Name)
	}
	if d.MaxGrowth != 1 {
		t.Errorf("MaxGrowth = %v, want 1", d.MaxGrowth)
	}
	if d.Temperament != Calm {
		t.Errorf("Temperament = %q, want calm", d.Temperament)
	}
	if _, ok := cat.Get("carp"); ok {
		t.Error("unknown id should not resolve")
	}
}
