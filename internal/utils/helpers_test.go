package utils

import "testing"

func TestMakeMap(t *testing.T) {
	m := MakeMap("snapshot_url", "https://fixr.org/handymen.json")
	if len(m) != 1 {
		t.Fatalf("Expected a single entry, got %d", len(m))
	}
	if m["snapshot_url"] != "https://fixr.org/handymen.json" {
		t.Errorf("Unexpected value: %q", m["snapshot_url"])
	}
}
