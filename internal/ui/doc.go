// Package ui renders git command progress for people reading the console.
//
// ConsoleCommandEventLogger observes the shell executor and prints one line
// per lifecycle event while structured telemetry stays in the zap logger.
package ui
