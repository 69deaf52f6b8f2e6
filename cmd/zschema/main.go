package main

import (
	"os"

	"github.com/twoojoo/zschema/cmd/zschema/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
