package main

import (
	"fmt"
	"os"

	_ "github.com/brimdata/funcsig/cmd/funcsig/analyze"
	_ "github.com/brimdata/funcsig/cmd/funcsig/check"
	_ "github.com/brimdata/funcsig/cmd/funcsig/format"
	_ "github.com/brimdata/funcsig/cmd/funcsig/fuzzer"
	"github.com/brimdata/funcsig/cmd/funcsig/root"
)

func main() {
	if err := root.Funcsig.Exec(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
