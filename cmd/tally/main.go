package main

import (
	"github.com/tallyhq/tally/internal/cli"
)

func main() {
	cli.Execute()
}
