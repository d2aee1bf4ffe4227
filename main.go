// Package main is the entry point for the refdata CLI.
package main

import "refdata.dev/cmd"

func main() {
	cmd.Execute()
}
