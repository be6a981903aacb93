package main

import (
	"log"
	"os"

	"github.com/funvibe/refcheck/pkg/cli"
)

func main() {
	log.SetFlags(0)          // No timestamps
	log.SetOutput(os.Stderr) // stdout carries the report

	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			log.Printf("internal error: %v", r)
			os.Exit(cli.ExitUsage)
		}
	}()

	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
