package severity_test

import (
	"encoding/json"
	"testing"

	"github.com/rocrate-validate/rocrate-validator/severity"
)

func TestOrdering(t *testing.T) {
	if !(severity.Optional < severity.Recommended && severity.Recommended < severity.Required) {
		t.Fatal("expected OPTIONAL < RECOMMENDED < REQUIRED")
	}
}

func TestAtOrAbove(t *testing.T) {
	cases := []struct {
		level     severity.Level
		threshold severity.Level
		want      bool
	}{
		{severity.Required, severity.Required, true},
		{severity.Recommended, severity.Required, false},
		{severity.Required, severity.Optional, true},
		{severity.Optional, severity.Optional, true},
	}
	for _, tc := range cases {
		if got := tc.level.AtOrAbove(tc.threshold); got != tc.want {
			t.Errorf("%s.AtOrAbove(%s) = %v, want %v", tc.level, tc.threshold, got, tc.want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, lvl := range []severity.Level{severity.Optional, severity.Recommended, severity.Required} {
		parsed, err := severity.Parse(lvl.String())
		if err != nil {
			t.Fatalf("Parse(%s) error: %v", lvl, err)
		}
		if parsed != lvl {
			t.Fatalf("Parse(%s) = %s, want %s", lvl, parsed, lvl)
		}
	}
}

func TestParseUnrecognized(t *testing.T) {
	if _, err := severity.Parse("CRITICAL"); err == nil {
		t.Fatal("expected error for unrecognized level")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(severity.Recommended)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"RECOMMENDED"` {
		t.Fatalf("got %s, want \"RECOMMENDED\"", data)
	}
	var l severity.Level
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if l != severity.Recommended {
		t.Fatalf("got %s, want RECOMMENDED", l)
	}
}
