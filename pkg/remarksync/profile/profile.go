// Package profile defines named reconciliation presets.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ukaji3/remarksync-go/pkg/remarksync"
	"gopkg.in/yaml.v3"
)

// ErrUnknownProfile is returned by Lookup for a name with no preset.
var ErrUnknownProfile = errors.New("unknown profile")

// Profile is a named set of reconciliation settings.
type Profile struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description,omitempty"`
	KeyFields    []string `yaml:"key_fields"`
	ValueField   string   `yaml:"value_field,omitempty"`
	ValueColumn  int      `yaml:"value_column,omitempty"`
	HeaderMarker string   `yaml:"header_marker,omitempty"`
	MaxScanRows  int      `yaml:"max_scan_rows,omitempty"`
	Sheet        string   `yaml:"sheet,omitempty"`
	Annotations  *bool    `yaml:"annotations,omitempty"`
}

// Options returns reconciliation options for the profile. Unset fields keep
// their defaults.
func (p Profile) Options() remarksync.Options {
	opts := remarksync.DefaultOptions()
	if len(p.KeyFields) > 0 {
		opts.KeyFields = append([]string(nil), p.KeyFields...)
	}
	if p.ValueField != "" {
		opts.ValueField = p.ValueField
	}
	if p.ValueColumn > 0 {
		opts.ValueColumn = p.ValueColumn
	}
	opts.HeaderMarker = p.HeaderMarker
	opts.MaxScanRows = p.MaxScanRows
	opts.OldSheet = p.Sheet
	opts.NewSheet = p.Sheet
	if p.Annotations != nil {
		v := *p.Annotations
		opts.Annotations = &v
	}
	return opts
}

func (p Profile) validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile without a name")
	}
	if len(p.KeyFields) == 0 {
		return fmt.Errorf("profile %q: key_fields is empty", p.Name)
	}
	if p.ValueColumn < 0 {
		return fmt.Errorf("profile %q: value_column must be positive", p.Name)
	}
	return nil
}

// Set is a collection of profiles by name.
type Set map[string]Profile

// Names returns the profile names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named profile.
func (s Set) Lookup(name string) (Profile, error) {
	p, ok := s[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Builtin returns the presets of the back-office extracts.
func Builtin() Set {
	return Set{
		"order-tracking": {
			Name:         "order-tracking",
			Description:  "order tracking workbook, remarks matched on document number and article",
			KeyFields:    []string{"N° Pièce", "Réf. Article"},
			ValueField:   "Remarques",
			ValueColumn:  14,
			HeaderMarker: "",
		},
		"order-follow-up": {
			Name:         "order-follow-up",
			Description:  "order follow-up extract with title rows above the header",
			KeyFields:    []string{"Référence", "Désignation"},
			ValueField:   "Remarques",
			ValueColumn:  14,
			HeaderMarker: "Référence",
		},
		"delivery": {
			Name:         "delivery",
			Description:  "delivery-note extract",
			KeyFields:    []string{"Référence", "Désignation"},
			ValueField:   "Remarques",
			ValueColumn:  14,
			HeaderMarker: "N° Compte Client",
		},
	}
}

type file struct {
	Profiles []Profile `yaml:"profiles"`
}

// Parse reads profiles from YAML of the form:
//
//	profiles:
//	  - name: order-tracking
//	    key_fields: ["N° Pièce", "Réf. Article"]
//	    value_field: Remarques
func Parse(r io.Reader) (Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}
	set := make(Set, len(f.Profiles))
	for _, p := range f.Profiles {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, dup := set[p.Name]; dup {
			return nil, fmt.Errorf("profile %q defined twice", p.Name)
		}
		set[p.Name] = p
	}
	return set, nil
}

// Load reads profiles from the YAML file at path and merges them over the
// built-in presets.
func Load(path string) (Set, error) {
	set := Builtin()
	if path == "" {
		return set, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	custom, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for name, p := range custom {
		set[name] = p
	}
	return set, nil
}
