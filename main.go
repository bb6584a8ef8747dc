package main

import (
	"context"

	"github.com/bjulian5/workops/cmd"
)

func main() {
	ctx := context.Background()
	cmd.Execute(ctx)
}
