// Command x turns a plain-English request into a shell command.
package main

import "github.com/quocvuong92/x-cli/cmd"

func main() {
	cmd.Execute()
}
