package main

import (
	"github.com/mpetrenko/smartcat-translator/internal/cli"
)

func main() {
	cli.Execute()
}
