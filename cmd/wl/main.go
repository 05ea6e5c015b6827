package main

import (
	"os"

	"github.com/walink/whatsapp-link-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
