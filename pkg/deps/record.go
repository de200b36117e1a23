package deps

import (
	"fmt"

	"github.com/matzehuels/deptiers/pkg/errors"
)

// Record describes one package version and its direct dependencies.
// Records are treated as immutable once read.
type Record struct {
	Name         string        `json:"name" yaml:"name"`
	Version      string        `json:"version" yaml:"version"`
	Dependencies *Requirements `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// Key returns the record's identity.
func (r Record) Key() Key { return Key{Name: r.Name, Version: r.Version} }

// Requires returns the record's dependencies in declaration order.
func (r Record) Requires() []Requirement { return r.Dependencies.All() }

// Validate checks the record and each of its dependency entries.
func (r Record) Validate() error {
	if err := errors.ValidatePackageName(r.Name); err != nil {
		return err
	}
	if err := errors.ValidateVersion(r.Version); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRecord, err, "package %s", r.Name)
	}
	for _, req := range r.Requires() {
		if err := errors.ValidatePackageName(req.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecord, err, "dependency of %s", r.Key().Label())
		}
		if err := errors.ValidateVersion(req.Version); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecord, err, "dependency %s of %s", req.Name, r.Key().Label())
		}
	}
	return nil
}

// Validate checks every record, reporting the first failure with its index.
func Validate(records []Record) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecord, err, "record %d", i)
		}
	}
	return nil
}

// String returns "name@version" followed by the dependency count.
func (r Record) String() string {
	return fmt.Sprintf("%s (%d deps)", r.Key().Label(), r.Dependencies.Len())
}
