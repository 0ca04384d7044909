/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resources

import (
	_ "embed"
	"os"
	"sort"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/suparena/crudstore"
	"github.com/suparena/crudstore/errors"
	"github.com/suparena/crudstore/resourcemodels"
)

//go:embed builtin.yaml
var builtin []byte

// Lookup is an auxiliary option list served below a resource endpoint
type Lookup struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Definition describes one panel resource
type Definition struct {
	Name        string                `yaml:"name"`
	Endpoint    string                `yaml:"endpoint"`
	ServiceName string                `yaml:"service"`
	StoreID     string                `yaml:"store"`
	SortKey     string                `yaml:"sort_key"`
	Public      bool                  `yaml:"public"`
	PerPage     int                   `yaml:"per_page"`
	Columns     []string              `yaml:"columns"`
	Lookups     []Lookup              `yaml:"lookups"`
	Default     resourcemodels.Record `yaml:"default"`
}

// Lookup returns the lookup called name
func (d Definition) Lookup(name string) (Lookup, bool) {
	for _, l := range d.Lookups {
		if l.Name == name {
			return l, true
		}
	}
	return Lookup{}, false
}

// StoreConfig returns the store configuration of the resource
func (d Definition) StoreConfig() crudstore.Config[resourcemodels.Record] {
	return crudstore.Config[resourcemodels.Record]{
		ID:             d.StoreID,
		ServiceName:    d.ServiceName,
		SortKeyDefault: d.SortKey,
		DefaultValue:   d.Default.Clone(),
		ItemsPerPage:   d.PerPage,
	}
}

func (d *Definition) normalize() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return errors.NewValidationError("name", "resource needs a name")
	}
	if d.Endpoint == "" {
		d.Endpoint = d.Name
	}
	if d.ServiceName == "" {
		d.ServiceName = strings.ToUpper(d.Name[:1]) + d.Name[1:] + "Service"
	}
	if d.StoreID == "" {
		d.StoreID = crudstore.CRUDMarker + d.Name
	}
	if !crudstore.IsCRUDID(d.StoreID) {
		return errors.NewValidationError("store", "store id of "+d.Name+" must contain "+crudstore.CRUDMarker)
	}
	if d.SortKey == "" {
		return errors.NewValidationError("sort_key", "resource "+d.Name+" needs a default sort key")
	}
	if d.PerPage < 0 {
		return errors.NewValidationError("per_page", "resource "+d.Name+" has a negative page size")
	}
	if d.Default == nil {
		d.Default = resourcemodels.Record{}
	}
	for _, l := range d.Lookups {
		if l.Name == "" || l.Path == "" {
			return errors.NewValidationError("lookups", "lookup of "+d.Name+" needs a name and a path")
		}
	}
	return nil
}

// Set is an ordered collection of resource definitions
type Set struct {
	Resources []Definition `yaml:"resources"`

	byName map[string]int
}

// Builtin returns the resource catalogue of the panel
func Builtin() (*Set, error) {
	set, err := Parse(builtin)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "parsing builtin resources")
	}
	return set, nil
}

// Load reads a definition set from a YAML file
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "reading resources file %s", path)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "parsing resources file %s", path)
	}
	return set, nil
}

// Parse decodes and validates a YAML definition set
func Parse(data []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, pkgerrors.Wrap(errors.ErrInvalidConfig, err.Error())
	}
	if len(set.Resources) == 0 {
		return nil, pkgerrors.Wrap(errors.ErrInvalidConfig, "no resources defined")
	}

	set.byName = make(map[string]int, len(set.Resources))
	services := make(map[string]string, len(set.Resources))
	for i := range set.Resources {
		d := &set.Resources[i]
		if err := d.normalize(); err != nil {
			return nil, err
		}
		if _, dup := set.byName[d.Name]; dup {
			return nil, errors.NewAlreadyExistsError("resource", d.Name)
		}
		if other, dup := services[d.ServiceName]; dup {
			return nil, pkgerrors.Wrapf(errors.NewAlreadyExistsError("service", d.ServiceName), "resources %s and %s", other, d.Name)
		}
		set.byName[d.Name] = i
		services[d.ServiceName] = d.Name
	}
	return &set, nil
}

// Get returns the definition called name
func (s *Set) Get(name string) (Definition, error) {
	i, ok := s.byName[name]
	if !ok {
		return Definition{}, errors.NewNotFoundError("resource", name)
	}
	return s.Resources[i], nil
}

// Names returns the resource names, sorted
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.Resources))
	for _, d := range s.Resources {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}
