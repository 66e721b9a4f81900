// Command insurancectl prices applications, inspects the record store, and
// tails submission events from the command line.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
