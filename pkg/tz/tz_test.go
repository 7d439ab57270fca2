package tz

import "testing"

func TestLoad(t *testing.T) {
	for _, name := range []string{"", " UTC ", "utc"} {
		loc, err := Load(name)
		if err != nil || loc.String() != "UTC" {
			t.Fatalf("Load(%q) = %v, %v", name, loc, err)
		}
	}
	if _, err := Load("Nowhere/Special"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}
