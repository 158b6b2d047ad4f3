package main

import (
	"os"

	"github.com/mf010/dynamic-website-sub000/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
