// Package config resolves the runner's global settings for one run. It merges
// the global configuration files named in the persistent settings file and on
// the command line, formats the variables they declare against the process
// environment, and settles strict matching and backend selection. Results
// are cached per run handle.
package config
