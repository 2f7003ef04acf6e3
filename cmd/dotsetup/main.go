// Package main provides the entry point for the dotsetup CLI.
package main

import "os"

func main() {
	os.Exit(Execute())
}
