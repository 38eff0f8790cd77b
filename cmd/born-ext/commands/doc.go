// Package commands defines the born-ext CLI.
//
// Commands
//
//   - version    Print the build version
//   - ops        List registered operators and where they come from
//   - run        Build an operator over random operands, run it forward and backward
//   - gradcheck  Compare an operator's gradients with central differences
//
// # Implementation
//
// The root command loads configuration (file, then BORN_EXT_* variables) and
// builds an app.App before any subcommand runs. The app carries the logger,
// the compute backend and the operator registry with the statically linked
// operators plus the plugins listed in the config.
package commands
