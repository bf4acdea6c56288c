package grimoire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Reference file types
const (
	FileTypeProfile   = "profil"
	FileTypeRace      = "peuple"
	FileTypeCharacter = "caracteres"
)

// Weapon types
const (
	WeaponMelee  = "cac"
	WeaponRanged = "dist"
	WeaponMagic  = "magic"
)

// FlexInt is an integer that also accepts numeric strings on decode.
// Empty strings and null decode to zero.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*f = 0
			return nil
		}
	}

	if n, err := strconv.Atoi(raw); err == nil {
		*f = FlexInt(n)
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a number: %q", raw)
	}
	*f = FlexInt(math.Trunc(v))
	return nil
}

// LooseString keeps the text of any JSON scalar (string, number, bool).
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = LooseString(v)
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		return fmt.Errorf("expected a scalar, got %s", data[:1])
	default:
		*s = LooseString(data)
	}
	return nil
}

// ParseLeadingInt reads the integer prefix of s the way a lenient form
// field does: leading spaces and a sign are allowed, trailing text is
// ignored, anything without digits yields 0.
func ParseLeadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// Traits are the three ability scores.
type Traits struct {
	Address FlexInt `json:"adresse"`
	Spirit  FlexInt `json:"esprit"`
	Power   FlexInt `json:"puissance"`
}

// Add returns the component-wise sum
func (t Traits) Add(o Traits) Traits {
	return Traits{
		Address: t.Address + o.Address,
		Spirit:  t.Spirit + o.Spirit,
		Power:   t.Power + o.Power,
	}
}

// Capacity is one ability unlocked along a profile path
type Capacity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Path is a progression track of a profile
type Path struct {
	Path       string     `json:"path"`
	Capacities []Capacity `json:"capacities,omitempty"`
}

// Profile (class) reference record
type Profile struct {
	Name   string `json:"name"`
	Traits Traits `json:"traits"`
	Paths  []Path `json:"paths,omitempty"`
}

// PathNames lists the profile's path names in order
func (p *Profile) PathNames() []string {
	names := make([]string, 0, len(p.Paths))
	for _, path := range p.Paths {
		names = append(names, path.Path)
	}
	return names
}

// CapacitiesByPath groups capacities under their path name
func (p *Profile) CapacitiesByPath() map[string][]Capacity {
	out := make(map[string][]Capacity, len(p.Paths))
	for _, path := range p.Paths {
		caps := path.Capacities
		if caps == nil {
			caps = []Capacity{}
		}
		out[path.Path] = caps
	}
	return out
}

// Race (people) reference record
type Race struct {
	Name   string `json:"name"`
	Traits Traits `json:"traits"`
}

// Item is an equipment reference record
type Item struct {
	Name       string      `json:"name"`
	FileType   string      `json:"fileType"`
	WeaponType string      `json:"weaponType,omitempty"`
	Damage     LooseString `json:"damage,omitempty"`
	Defense    LooseString `json:"defense,omitempty"`
}

// DefenseBonus is the integer prefix of Defense, 0 when absent or non-numeric
func (i *Item) DefenseBonus() int {
	return ParseLeadingInt(string(i.Defense))
}

// ParseProfile decodes a profile record from note data
func ParseProfile(data string) (*Profile, error) {
	var p Profile
	if err := decodeRecord(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// ParseRace decodes a race record from note data
func ParseRace(data string) (*Race, error) {
	var r Race
	if err := decodeRecord(data, &r); err != nil {
		return nil, fmt.Errorf("parse race: %w", err)
	}
	return &r, nil
}

// ParseItem decodes an item record from note data. fallbackType is used
// when the payload carries no fileType.
func ParseItem(data, fallbackType string) (*Item, error) {
	var it Item
	if err := decodeRecord(data, &it); err != nil {
		return nil, fmt.Errorf("parse item: %w", err)
	}
	if it.FileType == "" {
		it.FileType = fallbackType
	}
	return &it, nil
}

func decodeRecord(data string, v interface{ recordName() string }) error {
	if strings.TrimSpace(data) == "" {
		return fmt.Errorf("empty data")
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return err
	}
	if strings.TrimSpace(v.recordName()) == "" {
		return fmt.Errorf("record has no name")
	}
	return nil
}

func (p *Profile) recordName() string { return p.Name }
func (r *Race) recordName() string    { return r.Name }
func (i *Item) recordName() string    { return i.Name }
