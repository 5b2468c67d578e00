// Package cli constructs the gitsub command-line interface. It wires the Cobra
// command hierarchy to the Viper backed configuration loader and the zap logger
// and registers the submodules command group.
package cli
