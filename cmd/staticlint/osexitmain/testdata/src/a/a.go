package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("starting")
	defer func() {
		fmt.Println("deferred literals are not flagged")
	}()
	os.Exit(1) // want `do not call os.Exit directly in main; return an exit code instead`
}

func helper() {
	os.Exit(2) // only main.main is flagged
}
