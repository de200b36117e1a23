package deps

import (
	"encoding/json"

	"github.com/matzehuels/deptiers/pkg/errors"
)

// ProjectRoot names the root record of a manifest without a "name" field.
const ProjectRoot = "__project__"

// ProjectVersion is used for a manifest without a "version" field.
const ProjectVersion = "0.0.0"

type packageManifest struct {
	Name             string        `json:"name"`
	Version          string        `json:"version"`
	Dependencies     *Requirements `json:"dependencies"`
	DevDependencies  *Requirements `json:"devDependencies"`
	PeerDependencies *Requirements `json:"peerDependencies"`
}

// ParsePackageJSON reads a package.json manifest and returns a single root
// record. Its children are the entries of dependencies, devDependencies and
// peerDependencies, in that order; a name listed in more than one section
// keeps its first position and version. Version ranges are kept verbatim.
func ParsePackageJSON(data []byte) ([]Record, error) {
	var pkg packageManifest
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode package.json")
	}

	root := Record{Name: pkg.Name, Version: pkg.Version}
	if root.Name == "" {
		root.Name = ProjectRoot
	}
	if root.Version == "" {
		root.Version = ProjectVersion
	}

	reqs := NewRequirements()
	for _, section := range []*Requirements{pkg.Dependencies, pkg.DevDependencies, pkg.PeerDependencies} {
		for _, req := range section.All() {
			if _, seen := reqs.Get(req.Name); !seen {
				reqs.Set(req.Name, req.Version)
			}
		}
	}
	if reqs.Len() > 0 {
		root.Dependencies = reqs
	}

	records := []Record{root}
	if err := Validate(records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "package.json")
	}
	return records, nil
}
