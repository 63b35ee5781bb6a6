// Package config loads application settings from defaults, an optional YAML
// file, a .env file and STUDYDEV_ environment variables, and validates them.
package config
