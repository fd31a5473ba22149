package shape

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WeekdayEncoding declares how a weekday field numbers the week.
type WeekdayEncoding string

const (
	// Monday0 is 0=Monday..6=Sunday.
	Monday0 WeekdayEncoding = "monday0"
	// Monday1 is 1=Monday..7=Sunday.
	Monday1 WeekdayEncoding = "monday1"
)

func (e WeekdayEncoding) Valid() bool {
	return e == Monday0 || e == Monday1
}

// WeekdayField is one accepted weekday key and the encoding it carries.
type WeekdayField struct {
	Key      string          `yaml:"key"`
	Encoding WeekdayEncoding `yaml:"encoding"`
}

// NameFields are the candidates for a human readable name.
type NameFields struct {
	// User lookups apply when the record nests a "user" object.
	First    string   `yaml:"first"`
	Last     string   `yaml:"last"`
	Username string   `yaml:"username"`
	Email    string   `yaml:"email"`
	Generic  []string `yaml:"generic"`
	Fallback string   `yaml:"fallback"`
}

// Catalog is the versioned list of accepted property names per logical field.
type Catalog struct {
	Version   string         `yaml:"version"`
	Weekday   []WeekdayField `yaml:"weekday"`
	StartTime []string       `yaml:"start_time"`
	EndTime   []string       `yaml:"end_time"`
	Name      NameFields     `yaml:"name"`
}

const DefaultCatalogVersion = "2024-06"

// DefaultCatalog returns the aliases observed on the booking backend so far.
func DefaultCatalog() Catalog {
	return Catalog{
		Version: DefaultCatalogVersion,
		Weekday: []WeekdayField{
			{Key: "day_of_week", Encoding: Monday0},
			{Key: "dia", Encoding: Monday1},
			{Key: "day", Encoding: Monday1},
			{Key: "dayOfWeek", Encoding: Monday1},
			{Key: "weekday", Encoding: Monday1},
			{Key: "day_number", Encoding: Monday1},
		},
		StartTime: []string{"start_time", "inicio", "startTime", "start", "horaInicio", "hora_inicio"},
		EndTime:   []string{"end_time", "fin", "endTime", "end", "horaFin", "hora_fin"},
		Name: NameFields{
			First:    "first_name",
			Last:     "last_name",
			Username: "username",
			Email:    "email",
			Generic:  []string{"name", "full_name", "fullName", "username", "email", "nombre"},
			Fallback: "Barbero sin nombre",
		},
	}
}

// WeekdayKeys lists the weekday candidates in priority order.
func (c Catalog) WeekdayKeys() []string {
	keys := make([]string, len(c.Weekday))
	for i, f := range c.Weekday {
		keys[i] = f.Key
	}
	return keys
}

// EncodingFor returns the declared encoding of a weekday key.
func (c Catalog) EncodingFor(key string) (WeekdayEncoding, bool) {
	for _, f := range c.Weekday {
		if f.Key == key {
			return f.Encoding, true
		}
	}
	return "", false
}

// LoadCatalog reads a YAML override. Sections left empty keep the defaults.
// An empty path returns DefaultCatalog.
func LoadCatalog(path string) (Catalog, error) {
	def := DefaultCatalog()
	if path == "" {
		return def, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("read field catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return def, fmt.Errorf("parse field catalog: %w", err)
	}
	return merge(def, c)
}

func merge(def, c Catalog) (Catalog, error) {
	if c.Version == "" {
		c.Version = def.Version
	}
	if len(c.Weekday) == 0 {
		c.Weekday = def.Weekday
	}
	for _, f := range c.Weekday {
		if f.Key == "" {
			return def, fmt.Errorf("field catalog %s: weekday entry without key", c.Version)
		}
		if !f.Encoding.Valid() {
			return def, fmt.Errorf("field catalog %s: weekday key %q has unknown encoding %q", c.Version, f.Key, f.Encoding)
		}
	}
	if len(c.StartTime) == 0 {
		c.StartTime = def.StartTime
	}
	if len(c.EndTime) == 0 {
		c.EndTime = def.EndTime
	}
	if c.Name.First == "" {
		c.Name.First = def.Name.First
	}
	if c.Name.Last == "" {
		c.Name.Last = def.Name.Last
	}
	if c.Name.Username == "" {
		c.Name.Username = def.Name.Username
	}
	if c.Name.Email == "" {
		c.Name.Email = def.Name.Email
	}
	if len(c.Name.Generic) == 0 {
		c.Name.Generic = def.Name.Generic
	}
	if c.Name.Fallback == "" {
		c.Name.Fallback = def.Name.Fallback
	}
	return c, nil
}

// DisplayName resolves a person's readable name. A nested "user" object wins
// over the record's own generic name fields; its first and last name count
// only as a pair.
func (c Catalog) DisplayName(rec Record) string {
	n := c.Name
	if user, ok := Sub(rec, "user"); ok {
		first := ResolveString(user, []string{n.First}, "")
		last := ResolveString(user, []string{n.Last}, "")
		if first != "" && last != "" {
			return strings.TrimSpace(first + " " + last)
		}
		if u := ResolveString(user, []string{n.Username}, ""); u != "" {
			return u
		}
		if email := ResolveString(user, []string{n.Email}, ""); email != "" {
			local, _, _ := strings.Cut(email, "@")
			return local
		}
	}
	return ResolveString(rec, n.Generic, n.Fallback)
}
