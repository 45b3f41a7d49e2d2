package main

import (
	"flag"
	"log"
	"os"

	"github.com/macropower/mdpkm/pkg/config"
)

var outFile = flag.String("o", config.SchemaFile, "Output file for the generated schema")

func main() {
	flag.Parse()

	err := os.WriteFile(*outFile, config.SchemaJSON, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
