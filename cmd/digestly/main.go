package main

import (
	"digestly/cmd/cmd"
	"digestly/internal/logger"
)

func main() {
	logger.Init()
	cmd.Execute()
}
