// Package config resolves run settings from an optional YAML file and
// DTILISTS_* environment variables. The file is looked up next to the list
// files (<exptDir>/PIPELINE/dtilists.yaml) and then in ~/.dtilists/config.yaml.
// Its contents are checked against an embedded JSON schema before use.
package config
