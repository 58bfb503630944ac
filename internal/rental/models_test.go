package rental

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"
)

func date(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestDateJSON(t *testing.T) {
	d := date(t, "2025-03-01")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-03-01"` {
		t.Fatalf("marshal got %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip got %v want %v", back, d)
	}

	var bad Date
	if err := json.Unmarshal([]byte(`"01/03/2025"`), &bad); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}

func TestDateJSONEmpty(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`""`), &d); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if !d.IsZero() {
		t.Fatal("empty string should decode to zero date")
	}
	b, err := json.Marshal(d)
	if err != nil || string(b) != `""` {
		t.Fatalf("zero date marshal got %s err=%v", b, err)
	}
}

func TestOverlapsCases(t *testing.T) {
	cases := []struct {
		name                   string
		s1, e1, s2, e2         string
		want                   bool
	}{
		{"identical", "2025-03-01", "2025-03-05", "2025-03-01", "2025-03-05", true},
		{"nested", "2025-03-01", "2025-03-10", "2025-03-03", "2025-03-04", true},
		{"partial", "2025-03-01", "2025-03-05", "2025-03-04", "2025-03-06", true},
		{"touching shares the boundary day", "2025-03-01", "2025-03-05", "2025-03-05", "2025-03-09", true},
		{"adjacent next day", "2025-03-01", "2025-03-05", "2025-03-06", "2025-03-10", false},
		{"disjoint", "2025-03-01", "2025-03-02", "2025-03-20", "2025-03-25", false},
		{"single day equal", "2025-03-03", "2025-03-03", "2025-03-03", "2025-03-03", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Overlaps(date(t, c.s1), date(t, c.e1), date(t, c.s2), date(t, c.e2))
			if got != c.want {
				t.Fatalf("Overlaps(%s..%s, %s..%s) = %v, want %v", c.s1, c.e1, c.s2, c.e2, got, c.want)
			}
			// symmetric
			if Overlaps(date(t, c.s2), date(t, c.e2), date(t, c.s1), date(t, c.e1)) != c.want {
				t.Fatal("Overlaps is not symmetric")
			}
		})
	}
}

// Randomized pairs checked against the inclusive-bound definition
// s1 <= e2 && e1 >= s2, evaluated by day arithmetic.
func TestOverlapsRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day := func(n int) Date { return Date{base.AddDate(0, 0, n)} }

	for i := 0; i < 2000; i++ {
		a := rng.Intn(60)
		b := a + rng.Intn(15)
		c := rng.Intn(60)
		d := c + rng.Intn(15)

		want := a <= d && b >= c
		got := Overlaps(day(a), day(b), day(c), day(d))
		if got != want {
			t.Fatalf("days [%d,%d] vs [%d,%d]: got %v want %v", a, b, c, d, got, want)
		}
	}
}
