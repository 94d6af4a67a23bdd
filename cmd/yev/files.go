package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
)

type input struct {
	name string
	data []byte
}

// inputs reads every file in args, or standard input when args is empty.
// The name "-" also denotes standard input.
func inputs(cc *cli.Context, args []string) ([]input, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	res := make([]input, 0, len(args))
	for _, file := range args {
		d, err := readFile(cc, file)
		if err != nil {
			return nil, err
		}
		res = append(res, input{name: file, data: d})
	}
	return res, nil
}

func readFile(cc *cli.Context, file string) ([]byte, error) {
	if file == "-" {
		d, err := io.ReadAll(cc.In)
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return d, nil
	}
	d, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", file, err)
	}
	return d, nil
}
