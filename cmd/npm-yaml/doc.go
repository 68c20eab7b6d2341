// Package main hosts the npm-yaml entrypoint and command graph.
//
// Invoked with the arguments of a package-manager command, the binary acts as
// the install hook: it converts package.yml to package.json (or the reverse
// when only package.json exists) and always exits zero so the surrounding
// install is never blocked. Maintenance commands live under "self" so they
// cannot collide with package-manager subcommands such as "config" or "help".
package main
