// Package utils exposes the ambient helpers shared by the gitsub command line.
//
// ConfigurationLoader layers embedded defaults, configuration files and
// environment variables through Viper. LoggerFactory builds the zap logger the
// commands share.
package utils
