// Package output renders command results for the gmm7550 CLI.
//
// Three formats are supported:
//
//   - table: aligned columns via text/tabwriter, nested maps flattened
//     into dotted keys
//   - json: indented encoding/json
//   - yaml: gopkg.in/yaml.v3
//
// Struct fields tagged `table:"wide"` only appear with --wide, and
// `table:"-"` hides a field from tables entirely.
package output
