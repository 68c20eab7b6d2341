// Package manifest converts package manifests between YAML and JSON.
//
// Both encodings parse into the same ordered tree of Values, so a manifest
// read from package.yml can be written as package.json and back without
// losing key order. Parsing follows the YAML core schema: aliases and merge
// keys are resolved, duplicate keys and unknown tags are rejected, and
// non-finite floats become null on the JSON side. Every error carries one of
// two kinds, ErrParse or ErrIO, so callers can tell a malformed file from an
// unreadable one with errors.Is.
package manifest
