package main

import (
	"log"

	"github.com/dcode-github/rental_booking_system/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
