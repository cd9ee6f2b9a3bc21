// Package main is the entrypoint of the fitstar CLI.
package main

import (
	"github.com/huangsam/fitstar/cmd"
	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/internal/store"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	store.CloseStores()
	if err != nil {
		contract.LogFatal("Error", err)
	}
}
