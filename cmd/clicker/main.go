package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vedantwpatil/tile-tracker/internal/inject"
)

func main() {
	prog := filepath.Base(os.Args[0])

	cmd, err := inject.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, inject.ErrUsage) {
			fmt.Fprint(os.Stderr, inject.Usage(prog))
		} else if errors.Is(err, inject.ErrUnknownAction) {
			fmt.Fprintf(os.Stderr, "Unknown event type: %s\n", os.Args[1])
		} else {
			fmt.Fprintf(os.Stderr, "%s: %v\n", prog, err)
		}
		os.Exit(1)
	}

	status, err := cmd.Execute(inject.RobotDevice{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", prog, err)
		os.Exit(1)
	}
	fmt.Println(status)
}
