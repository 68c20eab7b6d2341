// Package preflight provides readiness checks for the project directory and
// the manifest files the hook converts between.
//
// These checks run in two contexts:
//   - The syncer calls CheckDirectoryAccess before replacing a manifest so a
//     read-only checkout is reported as an I/O failure instead of a stray
//     temp-file error.
//   - The CLI "npm-yaml status" command uses RunAll to display the state of
//     the directory and both manifests.
package preflight
