// Package config loads runtime configuration for the confctl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-e string    target environment name (also -env)
//	-url string  explicit service URL, overrides the environment
//	-debug       verbose logging
//
// # JSON schema
//
//	{
//	  "env": "prod",
//	  "environments": {
//	    "prod": "https://events.example.com",
//	    "stage": "https://events-stage.example.com"
//	  },
//	  "debug": false
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
