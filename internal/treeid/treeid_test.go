package treeid

import (
	"strings"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	id := Generate()

	if len(id) != 26 {
		t.Errorf("expected 26 characters, got %d", len(id))
	}

	if err := Validate(id); err != nil {
		t.Errorf("generated ID failed validation: %v", err)
	}

	if id[0] > '7' {
		t.Errorf("first character %c exceeds maximum '7'", id[0])
	}
}

func TestGenerateUnique(t *testing.T) {
	ids := make(map[string]bool)

	for i := 0; i < 100; i++ {
		id := Generate()
		if ids[id] {
			t.Errorf("duplicate ID generated: %s", id)
		}
		ids[id] = true
	}
}

func TestGenerateTimeSorted(t *testing.T) {
	var ids []string

	for i := 0; i < 10; i++ {
		ids = append(ids, Generate())
		time.Sleep(time.Millisecond)
	}

	// UUIDv7 IDs sort by timestamp
	for i := 1; i < len(ids); i++ {
		if strings.Compare(ids[i-1], ids[i]) >= 0 {
			t.Errorf("IDs not sorted: %s >= %s", ids[i-1], ids[i])
		}
	}
}

type fixedRand struct{ v int }

func (f fixedRand) Intn(n int) int { return f.v % n }

func TestGenerateDeterministic(t *testing.T) {
	g := NewGenerator(fixedRand{v: 7})
	id1 := g.Generate()
	id2 := g.Generate()

	// Same millisecond and same rand source: only the timestamp differs
	if err := Validate(id1); err != nil {
		t.Errorf("deterministic ID failed validation: %v", err)
	}
	if err := Validate(id2); err != nil {
		t.Errorf("deterministic ID failed validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", Generate(), false},
		{"too short", "abc", true},
		{"too long", strings.Repeat("0", 27), true},
		{"bad first char", "z" + strings.Repeat("0", 25), true},
		{"invalid character", "0" + strings.Repeat("u", 25), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
