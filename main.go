package main

import (
	"fmt"
	"os"

	"github.com/zeu5/gym-labs/labs"
)

// main entry point to all the lab exercises
func main() {
	rootCommand := labs.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
