package main

import (
	"context"

	"github.com/stub-enhancer/predictor/cmd/stubenhancer/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
