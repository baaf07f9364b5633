package main

import (
	"os"

	clog "github.com/charmbracelet/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "trickadex"}).Error(err.Error())
		os.Exit(1)
	}
}
