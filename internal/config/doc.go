// Package config loads timewise.yaml with viper.
//
// Values are resolved from, in order of precedence, bound command line
// flags, TIMEWISE_* environment variables, the config file and the built-in
// defaults. Nested keys map to environment names by replacing dots with
// underscores, so working_hours.start becomes TIMEWISE_WORKING_HOURS_START.
package config
