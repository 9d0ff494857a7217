package main

import (
	"os"

	"github.com/vdbe/sshd-command/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
