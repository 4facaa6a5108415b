// Package cli provides the interactive TaskKeeper command-line client.
//
// It wires configuration, the local session cache, the API services and an
// interactive REPL. Typical flow: restore a cached session (re-verified with
// the server), start a background connectivity watcher, then execute user
// commands until exit.
//
// Commands:
//   - register, login, logout, whoami
//   - list, add, show <id>, edit <id>, done <id>, delete <id>
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
