package main

import (
	"authboiler/cmd"
	"fmt"
	"os"
)

func main() {
	if err := cmd.Start(); err != nil {
		fmt.Printf("server run into an error: %s\n", err)
		os.Exit(1)
	}
}
