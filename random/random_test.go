package random

import "testing"

func TestResetReplaysSequence(t *testing.T) {
	s := New(42)
	first := make([]int, 20)
	for i := range first {
		first[i] = s.Intn(1000)
	}

	s.Reset()
	for i, want := range first {
		if got := s.Intn(1000); got != want {
			t.Fatalf("draw %d after reset = %d, want %d", i, got, want)
		}
	}
}

func TestIndependentSources(t *testing.T) {
	a := New(7)
	b := New(7)
	for i := 0; i < 50; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("sources with equal seed diverged at draw %d", i)
		}
	}
}

func TestIntnBounds(t *testing.T) {
	s := New(1)
	tests := []struct {
		name  string
		bound int
	}{
		{"zero", 0},
		{"negative", -5},
		{"one", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 10; i++ {
				if got := s.Intn(tt.bound); got != 0 {
					t.Errorf("Intn(%d) = %d, want 0", tt.bound, got)
				}
			}
		})
	}

	for i := 0; i < 1000; i++ {
		if v := s.Intn(8); v < 0 || v >= 8 {
			t.Fatalf("Intn(8) = %d out of range", v)
		}
	}
}

func TestReseed(t *testing.T) {
	s := New(1)
	s.Reseed(99)
	if s.Seed() != 99 {
		t.Errorf("Seed() = %d, want 99", s.Seed())
	}
	ref := New(99)
	if s.Intn(1<<30) != ref.Intn(1<<30) {
		t.Error("reseeded source does not match fresh source with same seed")
	}
}
