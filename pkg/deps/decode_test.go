package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/deptiers/pkg/errors"
)

func names(reqs []Requirement) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.Name + "@" + r.Version
	}
	return out
}

func TestReadPreservesDependencyOrder(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{
			name:   "JSON",
			format: FormatJSON,
			input: `[
				{"name": "next", "version": "13.0.1",
				 "dependencies": {"webpack": "5.74.0", "react": "18.2.0", "react-dom": "18.2.0"}},
				{"name": "lodash", "version": "4.17.21"}
			]`,
		},
		{
			name:   "YAML",
			format: FormatYAML,
			input: `
- name: next
  version: 13.0.1
  dependencies:
    webpack: 5.74.0
    react: 18.2.0
    react-dom: 18.2.0
- name: lodash
  version: 4.17.21
`,
		},
		{
			name:   "TOML",
			format: FormatTOML,
			input: `
[[record]]
name = "next"
version = "13.0.1"

[record.dependencies]
webpack = "5.74.0"
react = "18.2.0"
react-dom = "18.2.0"

[[record]]
name = "lodash"
version = "4.17.21"
`,
		},
	}

	want := []string{"webpack@5.74.0", "react@18.2.0", "react-dom@18.2.0"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Read(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if len(records) != 2 {
				t.Fatalf("records = %d, want 2", len(records))
			}
			if got := records[0].Key(); got != (Key{Name: "next", Version: "13.0.1"}) {
				t.Errorf("records[0] = %v, want next-13.0.1", got)
			}
			got := names(records[0].Requires())
			if strings.Join(got, ",") != strings.Join(want, ",") {
				t.Errorf("dependencies = %v, want %v", got, want)
			}
			if records[1].Dependencies.Len() != 0 {
				t.Errorf("lodash dependencies = %d, want 0", records[1].Dependencies.Len())
			}
		})
	}
}

func TestReadEmpty(t *testing.T) {
	for _, input := range []string{"", "  \n", "null", "[]"} {
		records, err := Read(strings.NewReader(input), FormatJSON)
		if err != nil {
			t.Errorf("Read(%q): unexpected error %v", input, err)
		}
		if len(records) != 0 {
			t.Errorf("Read(%q) = %d records, want 0", input, len(records))
		}
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		code   errors.Code
	}{
		{"malformed JSON", FormatJSON, `[{"name": }]`, errors.ErrCodeInvalidFormat},
		{"object instead of list", FormatJSON, `{"name": "a"}`, errors.ErrCodeInvalidFormat},
		{"missing version", FormatJSON, `[{"name": "a"}]`, errors.ErrCodeInvalidRecord},
		{"empty dependency version", FormatJSON, `[{"name": "a", "version": "1", "dependencies": {"b": ""}}]`, errors.ErrCodeInvalidRecord},
		{"yaml dependencies list", FormatYAML, "- name: a\n  version: '1'\n  dependencies: [b]\n", errors.ErrCodeInvalidFormat},
		{"toml unknown key", FormatTOML, "[[record]]\nname = \"a\"\nversion = \"1\"\ncolor = \"red\"\n", errors.ErrCodeInvalidFormat},
		{"unknown format", Format("xml"), `<a/>`, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		file    string
		want    Format
		wantErr bool
	}{
		{"deps.json", FormatJSON, false},
		{"dir/deps.YAML", FormatYAML, false},
		{"deps.yml", FormatYAML, false},
		{"deps.toml", FormatTOML, false},
		{"app/package.json", FormatPackageJSON, false},
		{"deps.xml", "", true},
		{"Makefile", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := DetectFormat(tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectFormat(%q) error = %v, wantErr %v", tt.file, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("YML"); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(YML) = %q, %v; want yaml", f, err)
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(xml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deps.yaml")
	content := "- name: axios\n  version: 1.2.0\n  dependencies:\n    follow-redirects: 1.14.9\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(records) != 1 || records[0].Dependencies.Len() != 1 {
		t.Fatalf("records = %v, want axios with one dependency", records)
	}
	if v, _ := records[0].Dependencies.Get("follow-redirects"); v != "1.14.9" {
		t.Errorf("follow-redirects = %q, want 1.14.9", v)
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestWriteRoundTripKeepsOrder(t *testing.T) {
	var buf strings.Builder
	if err := Write(&buf, Demo()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	records, err := Read(strings.NewReader(buf.String()), FormatJSON)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	next := records[len(records)-1]
	got := strings.Join(names(next.Requires()), ",")
	if got != "webpack@5.74.0,react@18.2.0,react-dom@18.2.0" {
		t.Errorf("next dependencies = %s", got)
	}
}
