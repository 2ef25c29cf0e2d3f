package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"bpi.backend/pkg/crypto"
)

func runPinHash(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("pin-hash", flag.ContinueOnError)
	pinFlag := fs.String("pin", "", "transaction PIN to hash; read from stdin when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pin := *pinFlag
	if pin == "" {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read pin: %w", err)
		}
		pin = strings.TrimSpace(line)
	}

	if err := crypto.ValidatePinFormat(pin); err != nil {
		return err
	}
	hash, err := crypto.HashPin(pin)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, hash)
	return nil
}

func main() {
	if err := runPinHash(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
