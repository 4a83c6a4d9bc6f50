// Package formatting renders pass results for the command line.
//
// A Printer writes dry-run counts, full plans, apply results and remote run
// acknowledgements as a go-pretty table, indented JSON or YAML. YAML goes
// through sigs.k8s.io/yaml so types with custom JSON encoding, such as
// reconciler.Plan, render the same fields in both formats.
package formatting
