package deps

// Demo returns the built-in demonstration set: nine popular npm packages and
// their direct dependencies. Each call returns fresh records.
func Demo() []Record {
	return []Record{
		{Name: "react", Version: "18.2.0", Dependencies: Requires(
			"object-assign", "4.1.1",
			"loose-envify", "1.4.0",
		)},
		{Name: "react-dom", Version: "18.2.0", Dependencies: Requires(
			"scheduler", "0.23.0",
			"object-assign", "4.1.1",
		)},
		{Name: "axios", Version: "1.2.0", Dependencies: Requires(
			"follow-redirects", "1.14.9",
		)},
		{Name: "lodash", Version: "4.17.21"},
		{Name: "react-router-dom", Version: "6.4.2", Dependencies: Requires(
			"react-router", "6.4.2",
			"history", "5.3.0",
		)},
		{Name: "typescript", Version: "4.8.4"},
		{Name: "tailwindcss", Version: "3.2.4", Dependencies: Requires(
			"postcss", "8.4.16",
			"autoprefixer", "10.4.7",
		)},
		{Name: "react-flow-renderer", Version: "11.1.1", Dependencies: Requires(
			"zustand", "4.1.5",
			"d3", "7.8.4",
		)},
		{Name: "next", Version: "13.0.1", Dependencies: Requires(
			"webpack", "5.74.0",
			"react", "18.2.0",
			"react-dom", "18.2.0",
		)},
	}
}
