package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"wasteportal/internal/crypto"
)

var cli struct {
	Out   string `help:"File the hex encoded session secret is written to." default:"session.key" type:"path"`
	Force bool   `help:"Overwrite an existing key file."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("genkey"),
		kong.Description("Generate a session secret for PORTAL_SESSION_SECRET."),
	)

	if _, err := os.Stat(cli.Out); err == nil && !cli.Force {
		fmt.Fprintf(os.Stderr, "Error: %s already exists. Refusing to overwrite.\n", cli.Out)
		os.Exit(1)
	}

	hexKey := hex.EncodeToString(crypto.GenerateSecret())
	if err := os.WriteFile(cli.Out, []byte(hexKey+"\n"), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", cli.Out, err)
		os.Exit(1)
	}
	fmt.Printf("Session secret written to %s\n", cli.Out)
}
