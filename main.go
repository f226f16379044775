package main

import (
	"fmt"
	"os"

	"github.com/joliciel-informatique/talismane-sub002/app"
	"github.com/joliciel-informatique/talismane-sub002/util/logger"
)

func main() {
	logger.SetupLogging()
	cmd := app.AllCommands()
	err := cmd.Flag.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("**err**: %v\n", err)
		os.Exit(1)
	}

	args := cmd.Flag.Args()
	err = cmd.Dispatch(args)
	if err != nil {
		fmt.Printf("**err**: %v\n", err)
		os.Exit(1)
	}
}
