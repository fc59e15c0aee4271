package directory

import (
	"encoding/json"
	"errors"
	"testing"

	"directory.fixr.org/internal/geo"
)

func TestRecordUnmarshalNormalizesShapes(t *testing.T) {
	t.Run("legacy flat coordinates", func(t *testing.T) {
		data := `{
			"id": "1",
			"name": "John Smith",
			"skills": ["Electrical", "Wiring"],
			"rating": 4.8,
			"reviews": 12,
			"whatsapp": "+2348012345678",
			"profilePicture": "electrician",
			"latitude": 6.5244,
			"longitude": 3.3792,
			"category": "Electrical"
		}`

		var r Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if r.Location != (geo.Point{Lat: 6.5244, Lng: 3.3792}) {
			t.Errorf("expected normalized location, got %+v", r.Location)
		}
		if r.Distance != nil {
			t.Error("distance must never come off the wire")
		}
	})

	t.Run("nested location with address", func(t *testing.T) {
		data := `{
			"id": "2",
			"name": "Ada O",
			"skills": ["Plumbing"],
			"whatsapp": "+2348000000000",
			"location": {"lat": 6.45, "lng": 3.42},
			"address": "Lagos Island, Lagos"
		}`

		var r Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if r.Location != (geo.Point{Lat: 6.45, Lng: 3.42}) {
			t.Errorf("expected nested location, got %+v", r.Location)
		}
		if r.Address != "Lagos Island, Lagos" {
			t.Errorf("expected address preserved, got %q", r.Address)
		}
	})

	t.Run("category defaults to first skill", func(t *testing.T) {
		data := `{"id":"3","name":"Bex","skills":["Tiling","Masonry"],"whatsapp":"+1","latitude":6.5,"longitude":3.3}`

		var r Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if r.Category != "Tiling" {
			t.Errorf("expected category 'Tiling', got %q", r.Category)
		}
	})

	t.Run("marshal emits the nested shape", func(t *testing.T) {
		r := Record{
			ID:            "4",
			Name:          "Kemi",
			Skills:        []string{"Painting"},
			Category:      "Painting",
			ContactHandle: "+234",
			Location:      geo.Point{Lat: 6.6, Lng: 3.4},
		}

		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("re-decode failed: %v", err)
		}
		if _, ok := decoded["latitude"]; ok {
			t.Error("marshal must not emit legacy flat fields")
		}
		if _, ok := decoded["location"]; !ok {
			t.Error("marshal must emit the nested location")
		}
		if _, ok := decoded["distance"]; ok {
			t.Error("unset distance must be omitted")
		}
	})
}

func TestCandidateValidate(t *testing.T) {
	valid := func() Candidate {
		return Candidate{
			Name:          "John Smith",
			Skills:        []string{"Electrical"},
			ContactHandle: "+2348012345678",
			Rating:        4.5,
			Location:      &geo.Point{Lat: 6.5244, Lng: 3.3792},
		}
	}

	t.Run("valid candidate", func(t *testing.T) {
		record, err := valid().validate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.Category != "Electrical" {
			t.Errorf("expected category defaulted to first skill, got %q", record.Category)
		}
		if record.ReviewCount != 0 {
			t.Errorf("expected zero reviews, got %d", record.ReviewCount)
		}
	})

	tests := []struct {
		name      string
		mutate    func(*Candidate)
		wantField string
	}{
		{"missing name", func(c *Candidate) { c.Name = "  " }, "name"},
		{"no skills", func(c *Candidate) { c.Skills = nil }, "skills"},
		{"blank skills", func(c *Candidate) { c.Skills = []string{" ", ""} }, "skills"},
		{"missing contact", func(c *Candidate) { c.ContactHandle = "" }, "whatsapp"},
		{"unresolved location", func(c *Candidate) { c.Location = nil }, "location"},
		{"out of range location", func(c *Candidate) { c.Location = &geo.Point{Lat: 91, Lng: 0} }, "location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)

			_, err := c.validate()
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, vErr.Field)
			}
		})
	}

	t.Run("rating clamped to range", func(t *testing.T) {
		c := valid()
		c.Rating = 7.2
		record, err := c.validate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.Rating != 5 {
			t.Errorf("expected rating clamped to 5, got %v", record.Rating)
		}

		c.Rating = -1
		record, err = c.validate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.Rating != 0 {
			t.Errorf("expected rating clamped to 0, got %v", record.Rating)
		}
	})
}

func TestNewRecordID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := newRecordID()
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}
