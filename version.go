package kinmap

// Version is the library version, also reported by the CLI.
const Version = "0.3.0"
