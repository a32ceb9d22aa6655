package main

import (
	"os"

	"whuchat/client/internal/app"
)

func main() {
	os.Exit(app.Run())
}
