// Package graph provides the JSON wire format of a positioned layout.
//
// The format is what the CLI writes with --format json, what the HTTP API
// returns and what the websocket hub pushes. It is designed for consumers
// such as diagram widgets that draw boxes and arrows at given coordinates:
//
//	{
//	  "nodes": [
//	    {"index": 0, "id": "a-1.0", "name": "a", "version": "1.0",
//	     "label": "a@1.0", "tier": 1, "x": 0, "y": 0},
//	    {"index": 1, "id": "b-2.0", "name": "b", "version": "2.0",
//	     "label": "b@2.0", "tier": 0, "x": 0, "y": 100}
//	  ],
//	  "edges": [{"id": "a-1.0-b-2.0", "source": "a-1.0", "target": "b-2.0", "from": 0, "to": 1}],
//	  "tiers": [{"tier": 0, "nodes": [1]}, {"tier": 1, "nodes": [0]}],
//	  ...
//	}
//
// Node ids follow the "name-version" display convention and repeat when a
// package occurs more than once; node indices are unique and edges carry
// both. Positions are box centers.
//
// Use [FromResult] and [ToResult] to convert between [Layout] and
// [layout.Result], and [MarshalLayout] / [UnmarshalLayout] (or the file and
// stream helpers) for encoding.
package graph
