package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
	"github.com/matzehuels/deptiers/pkg/pipeline"
)

// readRecords decodes the request body as a record list, or as a manifest
// when ?manifest= is present.
func readRecords(w http.ResponseWriter, r *http.Request) ([]deps.Record, error) {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	q := r.URL.Query()

	if name := q.Get("manifest"); q.Has("manifest") {
		if err := errors.ValidateManifestFilename(name); err != nil {
			return nil, err
		}
		if name != string(deps.FormatPackageJSON) {
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported manifest %q (only package.json)", name)
		}
		return deps.Read(body, deps.FormatPackageJSON)
	}

	format := deps.FormatJSON
	if v := q.Get("format"); v != "" {
		f, err := deps.ParseFormat(v)
		if err != nil {
			return nil, err
		}
		format = f
	}
	return deps.Read(body, format)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// renderRequest is the JSON body of POST /api/render. A present "records"
// key selects record input even when its value is null.
type renderRequest struct {
	pipeline.Options
	Records recordList `json:"records"`
}

// options returns the pipeline options the request names.
func (req *renderRequest) options() pipeline.Options {
	opts := req.Options
	if req.Records.set {
		opts.Records = req.Records.records
		if opts.Records == nil {
			opts.Records = []deps.Record{}
		}
	}
	return opts
}

// recordList records whether its key appeared in the body.
type recordList struct {
	set     bool
	records []deps.Record
}

func (l *recordList) UnmarshalJSON(b []byte) error {
	l.set = true
	return json.Unmarshal(b, &l.records)
}

// layoutQuery reads layout options from the query string.
func layoutQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Orientation: q.Get("orientation"),
		Axis:        q.Get("axis"),
		Label:       q.Get("label"),
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"sort", &opts.SortSiblings},
		{"resolve", &opts.Resolve},
		{"break_cycles", &opts.BreakCycles},
		{"no_invert", &opts.NoInvert},
		{"refresh", &opts.Refresh},
	}
	for _, f := range flags {
		if !q.Has(f.name) {
			continue
		}
		v := q.Get(f.name)
		if v == "" {
			*f.dst = true
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", f.name, v)
		}
		*f.dst = b
	}

	if v := q.Get("max_depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid max_depth %q", v)
		}
		opts.MaxDepth = n
	}
	return opts, opts.ValidateForLayout()
}
