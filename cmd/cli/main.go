// Command cli is the terminal client for the review service's HTTP API.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
