// Idiomatic entrypoint for the Cobra CLI, which delegates to cmd/root.go.

package main

import (
	"github.com/fsossai/embeddings/cmd"
)

func main() {
	cmd.Execute()
}
