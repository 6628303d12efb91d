package main

import (
	"github.com/monmarche/monmarche-cli/internal/cli"
)

func main() {
	cli.Execute()
}
