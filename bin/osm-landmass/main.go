package main

import (
	"log"

	"github.com/rubenv/landmass/cmd"
)

func main() {
	err := cmd.Run()
	if err != nil {
		log.Fatal(err.Error())
	}
}
