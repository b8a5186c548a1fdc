// Package config holds the redactor's runtime configuration.
//
// Settings come from four layers, later layers winning:
// built-in defaults (NewConfig), the YAML file (.redactor), environment
// variables (optionally loaded from .env) and command line flags.
package config
