// Package app wires the born-ext dependencies for the CLI.
//
// It builds the logger, metrics, native registry and compute backend from a
// config.Config and exposes them via the App struct for commands to use.
package app
