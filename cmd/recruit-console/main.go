package main

import (
	"errors"
	"fmt"
	"os"

	"recruit-console/internal/cli"
	"recruit-console/internal/model"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintln(os.Stderr, "warning:", err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
