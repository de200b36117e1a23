// Package deps defines the input side of deptiers: dependency records, the
// composite package key and the readers that produce record lists.
//
// # Records
//
// A [Record] names one package version and, optionally, its direct
// dependencies as an ordered name → version mapping:
//
//	[
//	  {"name": "react", "version": "18.2.0",
//	   "dependencies": {"object-assign": "4.1.1", "loose-envify": "1.4.0"}},
//	  {"name": "lodash", "version": "4.17.21"}
//	]
//
// Dependency order is significant: it is the order in which the graph builder
// emits child nodes, and therefore the default left-to-right order of
// siblings within a tier. [Requirements] keeps the order of the source
// document for JSON, YAML and TOML inputs.
//
// # Keys
//
// A [Key] is the (name, version) pair that identifies a package version. It
// is used for node identity, edge endpoints and tier maps, so a "-" or "@"
// inside a name or version can never make two different packages collide.
// [Key.String] renders the display id "name-version".
//
// # Sources
//
//   - [Demo]: the built-in demonstration set
//   - [Read] / [ReadFile]: record lists in JSON, YAML or TOML
//   - [ParsePackageJSON]: a package.json manifest, turned into a single root
//     record whose children are its dependencies, devDependencies and
//     peerDependencies
//
// Readers never interpret version strings; ranges such as "^1.2.0" are kept
// verbatim.
package deps
