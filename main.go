package main

import (
	"github.com/AlekseyChudov/rscheck/cmd"
)

func main() {
	cmd.Execute()
}
