package main

import (
	"os"

	"github.com/bethropolis/code-prompt/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
