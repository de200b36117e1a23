// Package table lists a layout tier by tier.
//
// Each row is one node occurrence with its tier and position. Tiers appear
// in the order they are drawn, so the table reads top to bottom like the
// diagram. Output is produced with go-pretty as a boxed text table,
// Markdown or CSV:
//
//	out, err := table.Render(res, table.Options{Style: table.Markdown})
package table
