package deps

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/deptiers/pkg/errors"
)

// Format identifies an input document type.
type Format string

// Supported input formats.
const (
	FormatJSON        Format = "json"
	FormatYAML        Format = "yaml"
	FormatTOML        Format = "toml"
	FormatPackageJSON Format = "package.json"
)

// Formats lists every supported input format.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatPackageJSON}

// ParseFormat validates a format name. "yml" is accepted as YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatTOML, FormatPackageJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q (must be one of: json, yaml, toml, package.json)", s)
}

// DetectFormat chooses a format from a file name. A file named package.json
// is read as a manifest, not as a record list.
func DetectFormat(filename string) (Format, error) {
	base := filepath.Base(filename)
	if strings.EqualFold(base, "package.json") {
		return FormatPackageJSON, nil
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot detect input format of %s", base)
}

// ReadFile reads a record list from path, detecting the format from its
// name. The path "-" reads JSON from standard input.
func ReadFile(path string) ([]Record, error) {
	if path == "-" {
		return Read(os.Stdin, FormatJSON)
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

// Read decodes a record list. Empty input yields an empty list and no error.
func Read(r io.Reader, format Format) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []Record
	switch format {
	case FormatJSON:
		records, err = decodeJSON(data)
	case FormatYAML:
		records, err = decodeYAML(data)
	case FormatTOML:
		records, err = decodeTOML(data)
	case FormatPackageJSON:
		return ParsePackageJSON(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s records", format)
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeJSON(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeYAML(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// tomlDocument is the TOML record list layout:
//
//	[[record]]
//	name = "react"
//	version = "18.2.0"
//
//	[record.dependencies]
//	object-assign = "4.1.1"
type tomlDocument struct {
	Records []tomlRecord `toml:"record"`
}

type tomlRecord struct {
	Name         string            `toml:"name"`
	Version      string            `toml:"version"`
	Dependencies map[string]string `toml:"dependencies"`
}

func decodeTOML(data []byte) ([]Record, error) {
	var doc tomlDocument
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", undecoded[0].String())
	}

	// TOML tables decode into Go maps; the declaration order survives in the
	// metadata key list, one "record" key per [[record]] header.
	order := make([][]string, len(doc.Records))
	idx := -1
	for _, k := range md.Keys() {
		switch {
		case len(k) == 1 && k[0] == "record":
			idx++
		case len(k) == 3 && k[0] == "record" && k[1] == "dependencies" && idx >= 0 && idx < len(order):
			order[idx] = append(order[idx], k[2])
		}
	}

	records := make([]Record, 0, len(doc.Records))
	for i, tr := range doc.Records {
		rec := Record{Name: tr.Name, Version: tr.Version}
		if len(tr.Dependencies) > 0 {
			rec.Dependencies = orderedRequirements(tr.Dependencies, order[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

// orderedRequirements builds a mapping from m, placing names in the given
// order first and any remaining names sorted after them.
func orderedRequirements(m map[string]string, order []string) *Requirements {
	reqs := NewRequirements()
	for _, name := range order {
		if v, ok := m[name]; ok {
			reqs.Set(name, v)
		}
	}
	var rest []string
	for name := range m {
		if _, ok := reqs.Get(name); !ok {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	for _, name := range rest {
		reqs.Set(name, m[name])
	}
	return reqs
}

// Write encodes records as indented JSON.
func Write(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode records")
	}
	return nil
}
