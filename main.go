package main

import (
	"os"

	"github.com/xanhenergy/xanhenergy-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
