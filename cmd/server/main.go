package main

import (
	"log"
)

func main() {
	app, err := newApp()
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	if err := app.run(); err != nil {
		app.log.WithError(err).Fatal("server stopped with error")
	}
}
