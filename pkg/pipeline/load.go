package pipeline

import (
	"os"

	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
)

// Load reads the records named by the input fields of opts. An Input file
// named package.json is read as a manifest.
func Load(opts Options) ([]deps.Record, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	switch {
	case opts.Records != nil:
		return opts.Records, nil
	case opts.Demo:
		return deps.Demo(), nil
	case opts.Manifest != "":
		return deps.ParsePackageJSON([]byte(opts.Manifest))
	case opts.Input == "-":
		return loadStdin(opts)
	}

	if opts.InputFormat == "" {
		return deps.ReadFile(opts.Input)
	}
	format, err := deps.ParseFormat(opts.InputFormat)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(opts.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "input %s", opts.Input)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", opts.Input)
	}
	defer f.Close()
	return deps.Read(f, format)
}

func loadStdin(opts Options) ([]deps.Record, error) {
	if opts.InputFormat == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "reading from stdin requires an input format")
	}
	format, err := deps.ParseFormat(opts.InputFormat)
	if err != nil {
		return nil, err
	}
	in := opts.Stdin
	if in == nil {
		in = os.Stdin
	}
	return deps.Read(in, format)
}
