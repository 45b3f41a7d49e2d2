// Package config loads the mdpkm configuration file.
//
// The file is YAML. It is validated against a JSON schema reflected from the
// [Config] type before being decoded, so errors can point at the offending
// line of the user's file.
package config

//go:generate go run ../../internal/schemagen -o config.v1beta1.json
