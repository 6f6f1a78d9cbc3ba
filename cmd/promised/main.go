package main

import (
	"log"

	"github.com/joeydtaylor/steeze-promised/pkg/serverfx"
	"go.uber.org/fx"
)

func main() {
	opts, err := serverfx.LoadOptions("PROMISED_")
	if err != nil {
		log.Fatal(err)
	}
	registerHandlers()
	fx.New(serverfx.Module(opts)).Run()
}
