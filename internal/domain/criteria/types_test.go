package criteria

import (
	"encoding/json"
	"testing"
)

func TestState_ZeroValueIsAbsent(t *testing.T) {
	t.Parallel()

	var s State
	if s != Absent {
		t.Fatalf("zero State = %v, want Absent", s)
	}

	set := Set{}
	if got := set.Get("anything"); got != Absent {
		t.Errorf("Set.Get(missing) = %v, want Absent", got)
	}
}

func TestFromBool(t *testing.T) {
	t.Parallel()

	yes, no := true, false
	tests := []struct {
		name string
		in   *bool
		want State
	}{
		{"nil", nil, Absent},
		{"true", &yes, Met},
		{"false", &no, NotMet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FromBool(tt.in); got != tt.want {
				t.Errorf("FromBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want State
	}{
		{"true", Met},
		{"false", NotMet},
		{"null", Absent},
	}
	for _, tt := range tests {
		var got State
		if err := json.Unmarshal([]byte(tt.raw), &got); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.raw, got, tt.want)
		}
		out, err := json.Marshal(got)
		if err != nil {
			t.Fatalf("Marshal(%v) error: %v", got, err)
		}
		if string(out) != tt.raw {
			t.Errorf("Marshal(%v) = %s, want %s", got, out, tt.raw)
		}
	}
}

func TestState_UnmarshalRejectsNonBool(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`"yes"`, `1`, `[]`, `{}`} {
		var s State
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			t.Errorf("Unmarshal(%s) expected error, got state %v", raw, s)
		}
	}
}

func TestState_Invalid(t *testing.T) {
	t.Parallel()

	bad := State(7)
	if bad.Valid() {
		t.Error("State(7).Valid() = true, want false")
	}
	if _, err := json.Marshal(bad); err == nil {
		t.Error("Marshal(State(7)) expected error")
	}
	if bad.String() != "state(7)" {
		t.Errorf("String() = %q", bad.String())
	}
}
