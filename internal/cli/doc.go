// Package cli implements the aimon command-line interface.
//
// # Command Structure
//
// The root command runs the dashboard; two subcommands cover scripting and
// build metadata:
//
//	aimon                      - Full-screen live dashboard
//	aimon snapshot [--format]  - Sample once and print text or YAML
//	aimon version [--short]    - Print build information
//
// # Configuration
//
// Every dashboard flag (--interval, --api-url, --exclude and so on) is a
// persistent flag on the root command, so snapshot accepts the same set.
// Values are resolved by config.Load: explicitly set flags, then AIMON_
// environment variables, then the config file, then defaults.
//
// # Shutdown
//
// Execute cancels the command context on SIGINT or SIGTERM. The dashboard
// treats that, an interrupt, or the q key as a clean exit: the terminal is
// restored, "Exiting gracefully..." is printed and the process exits 0.
// Configuration errors exit 2 and any other failure exits 1.
package cli
