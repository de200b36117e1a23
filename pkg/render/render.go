package render

// EmptyMessage is shown in place of a diagram or table when a layout has no
// nodes.
const EmptyMessage = "No dependencies to display."
