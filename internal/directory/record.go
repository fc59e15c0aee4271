package directory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"directory.fixr.org/internal/geo"
)

// Record is one service professional in the directory.
//
// Distance is transient: it is populated only by a ranking pass when the
// session location is known, never persisted, and recomputed every pass.
type Record struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Skills        []string  `json:"skills"`
	Category      string    `json:"category"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"reviews"`
	ContactHandle string    `json:"whatsapp"`
	AvatarKind    string    `json:"profilePicture,omitempty"`
	Location      geo.Point `json:"location"`
	Address       string    `json:"address,omitempty"`
	Distance      *float64  `json:"distance,omitempty"`
}

// recordWire accepts both snapshot shapes: the legacy one with flat
// latitude/longitude numbers and the newer one with a nested location object
// plus an optional address. Records are normalized to the nested shape here,
// at ingestion, so nothing downstream branches on the duality again.
type recordWire struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Skills        []string   `json:"skills"`
	Category      string     `json:"category"`
	Rating        float64    `json:"rating"`
	ReviewCount   int        `json:"reviews"`
	ContactHandle string     `json:"whatsapp"`
	AvatarKind    string     `json:"profilePicture"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	Location      *geo.Point `json:"location"`
	Address       string     `json:"address"`
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	r.ID = w.ID
	r.Name = w.Name
	r.Skills = w.Skills
	r.Category = w.Category
	r.Rating = w.Rating
	r.ReviewCount = w.ReviewCount
	r.ContactHandle = w.ContactHandle
	r.AvatarKind = w.AvatarKind
	r.Address = w.Address
	r.Distance = nil

	switch {
	case w.Location != nil:
		r.Location = *w.Location
	case w.Latitude != nil && w.Longitude != nil:
		r.Location = geo.Point{Lat: *w.Latitude, Lng: *w.Longitude}
	default:
		r.Location = geo.Point{}
	}

	if r.Category == "" && len(r.Skills) > 0 {
		r.Category = strings.TrimSpace(r.Skills[0])
	}

	return nil
}

// Candidate is the input to AddRecord before ids and defaults are applied.
// Location must already be resolved; callers geocode an address first and
// block submission until resolution succeeds.
type Candidate struct {
	Name          string
	Skills        []string
	Category      string
	Rating        float64
	ContactHandle string
	AvatarKind    string
	Location      *geo.Point
	Address       string
}

// ValidationError names the candidate field that blocked persistence.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// validate checks the required fields and returns a normalized record with
// defaults applied: category falls back to the first skill, rating is
// clamped into [0,5], review count starts at zero.
func (c Candidate) validate() (Record, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return Record{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	var skills []string
	for _, skill := range c.Skills {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	if len(skills) == 0 {
		return Record{}, &ValidationError{Field: "skills", Reason: "at least one skill is required"}
	}

	contact := strings.TrimSpace(c.ContactHandle)
	if contact == "" {
		return Record{}, &ValidationError{Field: "whatsapp", Reason: "contact handle is required"}
	}

	if c.Location == nil {
		return Record{}, &ValidationError{Field: "location", Reason: "location is not resolved"}
	}
	if !c.Location.Valid() {
		return Record{}, &ValidationError{Field: "location", Reason: "coordinates are out of range"}
	}

	category := strings.TrimSpace(c.Category)
	if category == "" {
		category = skills[0]
	}

	rating := c.Rating
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}

	return Record{
		Name:          name,
		Skills:        skills,
		Category:      category,
		Rating:        rating,
		ReviewCount:   0,
		ContactHandle: contact,
		AvatarKind:    c.AvatarKind,
		Location:      *c.Location,
		Address:       strings.TrimSpace(c.Address),
	}, nil
}

var idSequence atomic.Uint64

// newRecordID returns an identifier unique within a single client: a
// millisecond timestamp with a process-monotonic suffix so rapid successive
// submissions cannot collide.
func newRecordID() string {
	seq := idSequence.Add(1)
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + strconv.FormatUint(seq, 10)
}
