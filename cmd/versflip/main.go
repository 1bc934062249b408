package main

import (
	"github.com/versflip/versflip/internal/cli"
)

func main() {
	cli.Execute()
}
