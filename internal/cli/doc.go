// Parses flags and configures logging for the doe command.
//
// The command accepts the following global flags:
//
//	-q, --quiet       Suppress informational output.
//	-v, --verbose     Enable verbose output.
//	-d, --debug       Enable debug output.
//	    --cache-dir   Cache root ($DOE_CACHE_DIR).
//
// Flags override build-time defaults set via linker flags. A .env file in the
// working directory is loaded before parsing, so it can provide environment
// bindings such as DOE_CACHE_DIR. After parsing, the global logger is
// reconfigured to reflect the final level and verbosity before the selected
// subcommand runs.
//
// Example usage:
//
//	doe prepare --name web ./web.toml -- --port 8080
//	doe version
package cli
