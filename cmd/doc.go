// Package cmd implements the x command line.
//
// # Architecture
//
//   - root.go: App struct, cobra command setup, flags and dispatch
//   - credentials.go: token resolution, `x init`, --status and --reset
//   - suggest.go: wires a suggestion session to the terminal, the
//     completion client and the shell launcher
//
// # Flow
//
// With no query, usage is printed and x exits 0. The query `init` fetches
// a token from the setup URL and stores it. Any other query resolves a
// token (running setup first when none is found), then starts a session:
//
//	x list s3 buckets
//
// The session shows a suggestion and waits for a single key. Enter runs
// the command in $SHELL, space asks for another formatting, and Ctrl-C
// quits. Three rejections end with "No suggestion found".
//
// # Exit codes
//
//   - 0: command launched, or nothing to do
//   - 1: failure or exhausted suggestions
//   - 130: interrupted
//
// # Usage
//
//	func main() {
//	    cmd.Execute()
//	}
package cmd
