package version

import "testing"

func TestParseRangeContains(t *testing.T) {
	tests := []struct {
		spec    string
		version string
		want    bool
	}{
		{"[1.0,1.1)", "1.0", true},
		{"[1.0,1.1)", "1.0.1", true},
		{"[1.0,1.1)", "1.1", false},
		{"[1.0,1.1)", "1.5", false},
		{"(1.0,1.1]", "1.0", false},
		{"(1.0,1.1]", "1.1", true},
		{"[1.0]", "1.0", true},
		{"[1.0]", "1.0.1", false},
		{"[1.0,)", "99", true},
		{"(,1.0]", "0.9", true},
		{"(,1.0],[1.2,)", "1.0.1", false},
		{"(,1.0],[1.2,)", "1.0", true},
		{"(,1.0],[1.2,)", "1.3", true},
		{"1.0", "7.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.spec+"_"+tt.version, func(t *testing.T) {
			r, err := ParseRange(tt.spec)
			if err != nil {
				t.Fatalf("ParseRange(%q) error = %v", tt.spec, err)
			}
			if got := r.ContainsString(tt.version); got != tt.want {
				t.Errorf("%s contains %s = %v, want %v", tt.spec, tt.version, got, tt.want)
			}
		})
	}
}

func TestParseRangeErrors(t *testing.T) {
	for _, spec := range []string{
		"",
		"[1.0,2.0",
		"(1.0)",
		"[2.0,1.0]",
		"(1.0,1.0)",
		"[1.0,2.0],[1.5,3.0]",
		"[1.0,2.0)x",
		"[1.0,2.0),",
		"[1.0,2.0,3.0]",
	} {
		t.Run(spec, func(t *testing.T) {
			if _, err := ParseRange(spec); err == nil {
				t.Errorf("ParseRange(%q) expected error", spec)
			}
		})
	}
}

func TestIsRange(t *testing.T) {
	if !IsRange("[1.0,2.0)") || !IsRange(" (,1.0]") {
		t.Error("bracketed specs should be ranges")
	}
	if IsRange("1.0") {
		t.Error("plain version is not a range")
	}
}

func TestRangeSelect(t *testing.T) {
	available := []string{"0.9", "1.0", "1.0.1", "1.2", "2.0"}
	tests := []struct {
		spec      string
		available []string
		want      string
		ok        bool
	}{
		{"[1.0,2.0)", available, "1.2", true},
		{"[1.0,1.1)", available, "1.0.1", true},
		{"[3.0,)", available, "", false},
		{"[1.5,)", nil, "1.5", true},
		{"(1.5,)", nil, "", false},
		{"1.7", available, "1.7", true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			r, err := ParseRange(tt.spec)
			if err != nil {
				t.Fatal(err)
			}
			got, ok := r.Select(tt.available)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Select() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRestrictionString(t *testing.T) {
	r, err := ParseRange("[1.0],(,2.0)")
	if err == nil {
		t.Fatalf("expected overlap error, got %v", r.Restrictions())
	}
	r, err = ParseRange("[1.0],[1.5,2.0)")
	if err != nil {
		t.Fatal(err)
	}
	res := r.Restrictions()
	if len(res) != 2 {
		t.Fatalf("len = %d, want 2", len(res))
	}
	if res[0].String() != "[1.0]" || res[1].String() != "[1.5,2.0)" {
		t.Errorf("got %s %s", res[0], res[1])
	}
}
