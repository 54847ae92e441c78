// Package main is the routecheck CLI entry point.
package main

import (
	"github.com/BurkeyCode/routecheck/cmd"
)

func main() {
	cmd.Execute()
}
