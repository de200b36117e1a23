package build

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
)

// DefaultLabel is the label template used when none is configured.
const DefaultLabel = "{{.Name}}@{{.Version}}"

// MaxLabelBytes caps the rendered size of a single label.
const MaxLabelBytes = 256

// unboundedFuncs allocate in proportion to an argument and are removed from
// the template function map.
var unboundedFuncs = []string{"repeat", "until", "untilStep", "seq"}

// labelFuncs returns sprig's hermetic functions without unboundedFuncs.
// Hermetic excludes env, expandenv and the other non-repeatable functions.
func labelFuncs() template.FuncMap {
	funcs := sprig.HermeticTxtFuncMap()
	for _, name := range unboundedFuncs {
		delete(funcs, name)
	}
	return funcs
}

// limitWriter fails once more than n bytes have been written.
type limitWriter struct {
	b strings.Builder
	n int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if w.b.Len()+len(p) > w.n {
		return 0, errors.New(errors.ErrCodeInvalidInput, "label exceeds %d bytes", w.n)
	}
	return w.b.Write(p)
}

// LabelData is the value a label template is executed with.
type LabelData struct {
	Name    string
	Version string
	Depth   int  // 0 for top-level records
	Root    bool // true for top-level records
}

// Labeler formats node labels from a template.
type Labeler struct {
	text string
	tmpl *template.Template
}

// NewLabeler parses a label template. Sprig's hermetic functions are
// available; environment access is not.
func NewLabeler(text string) (*Labeler, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultLabel
	}
	tmpl, err := template.New("label").Funcs(labelFuncs()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse label template")
	}
	return &Labeler{text: text, tmpl: tmpl}, nil
}

// Text returns the template source.
func (l *Labeler) Text() string {
	if l == nil {
		return DefaultLabel
	}
	return l.text
}

// Format renders the label of key k at the given depth. A nil Labeler
// returns k.Label().
func (l *Labeler) Format(k deps.Key, depth int) (string, error) {
	if l == nil || l.text == DefaultLabel {
		return k.Label(), nil
	}
	w := &limitWriter{n: MaxLabelBytes}
	data := LabelData{Name: k.Name, Version: k.Version, Depth: depth, Root: depth == 0}
	if err := l.tmpl.Execute(w, data); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "label %s", k.Label())
	}
	return w.b.String(), nil
}
