// Package build turns dependency records into a [dag.DAG].
//
// [Build] visits each top-level record in input order. It emits one node for
// the record and, for every dependency in declaration order, one node for the
// dependency plus an edge record → dependency. Nodes start at the zero
// placeholder position; the layout engine positions them later.
//
// Dependencies are expanded per occurrence: a package required by two
// records appears as two nodes with the same key. By default a dependency
// entry carries only a name and a version, so expansion stops one level
// below each top-level record. With [Options.Resolve] a dependency whose key
// matches a top-level record is expanded with that record's dependencies,
// recursively; re-entering a key still being expanded is a cycle and fails
// with a CYCLIC_GRAPH error naming the path.
//
// Node labels default to "name@version" and can be customized with a
// [Labeler], a text/template with sprig's hermetic function library:
//
//	l, _ := build.NewLabeler(`{{.Name | upper}} {{.Version}}`)
//	g, err := build.Build(records, build.Options{Label: l})
package build
