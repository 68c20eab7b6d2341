package syncer

import "npmyaml/internal/manifest"

// Action describes what a run decided to do.
type Action string

const (
	// ActionNotTriggered means the command was not an install; nothing was touched.
	ActionNotTriggered Action = "not-triggered"
	// ActionNoManifest means neither manifest exists in the directory.
	ActionNoManifest Action = "no-manifest"
	// ActionYAMLToJSON converts package.yml into package.json.
	ActionYAMLToJSON Action = "yaml-to-json"
	// ActionJSONToYAML converts package.json into package.yml.
	ActionJSONToYAML Action = "json-to-yaml"
)

// Invocation carries the process inputs a run depends on.
type Invocation struct {
	// Args are the user arguments with the program name removed.
	Args []string
	// Dir is the directory holding the manifests.
	Dir string
}

// Result is the outcome of one run. Err, when set, wraps manifest.ErrParse
// or manifest.ErrIO and the target file was left untouched.
type Result struct {
	RunID   string
	Action  Action
	Source  string
	Target  string
	Written bool
	Err     error
}

// Failed reports whether the run hit an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// ErrorKind returns manifest.ErrParse, manifest.ErrIO, or nil.
func (r Result) ErrorKind() error {
	return manifest.ErrorKind(r.Err)
}
