package main

import (
	"github.com/rigtool/recipe-image-generator/pkg/cli"
)

func main() {
	cli.Execute()
}
