package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/treesnap/internal/cli"
	"github.com/temirov/treesnap/internal/utils"
)

// main is the entry point for the treesnap command.
func main() {
	applicationLogger, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		fmt.Fprintf(os.Stderr, utils.LoggerInitializationFailedMessageFormat+"\n", loggerInitializationError)
		os.Exit(1)
	}
	defer applicationLogger.Sync()

	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		applicationLogger.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
	}
}
