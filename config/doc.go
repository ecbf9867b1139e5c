// Package config loads the parameters of a classification run.
//
// Values are layered: built-in defaults, then a YAML file, then environment
// variables prefixed with GEOCLASS_. Nested keys are separated by a double
// underscore, so GEOCLASS_MODEL__HOME_WEIGHT sets model.home_weight.
//
//	cfg, err := config.Load("geoclass.yaml")
//	if err != nil { ... }
//	params, err := cfg.Params()
package config
