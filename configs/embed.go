// Package configs provides the embedded configuration template for filedepot.
//
// The template is embedded at build time with go:embed so it ships in every
// distribution, source builds and binary releases alike. It is written out by
// `filedepot init` to seed a project's filedepot.yaml.
package configs

import _ "embed"

// ConfigTemplate is the annotated filedepot.yaml template written by
// `filedepot init`.
//
//go:embed filedepot.example.yaml
var ConfigTemplate string
