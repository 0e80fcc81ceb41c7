// Command zyren serves the round predictor, the chat assistant and the image
// generator, and renders predictions in the terminal.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
