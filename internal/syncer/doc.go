// Package syncer implements the install hook that keeps package.yml and
// package.json in step.
//
// A run is only triggered when the first user argument names an install
// command. The YAML manifest is authoritative: when it exists it is converted
// to JSON and the JSON file is overwritten. Only when it is absent does an
// existing package.json get converted the other way. With neither file present
// the run does nothing.
//
// Run never returns an error. Every failure is logged and reported through
// Result.Err so the surrounding package-manager command is never blocked.
package syncer
