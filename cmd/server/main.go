package main

import (
	"log"

	"blogcomments/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
