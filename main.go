package main

import (
	"os"

	"github.com/satext/satext/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
