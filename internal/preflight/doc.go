// Package preflight provides readiness checks for the external tools,
// directories, and translation provider autosubtitle depends on.
//
// These checks run in two contexts:
//   - `autosubtitle run` calls RunAll before processing and refuses to start
//     when a required check fails, rather than failing every video later.
//   - `autosubtitle check` prints every result, including the optional
//     translation provider probe.
package preflight
