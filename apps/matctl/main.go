package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/matsight/matsight/apps/matctl/cmd"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "matctl crashed: %v\n", r)
			if os.Getenv("MATSIGHT_DEBUG") != "" {
				debug.PrintStack()
			}
			os.Exit(2)
		}
	}()

	cmd.Execute()
}
