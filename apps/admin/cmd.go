package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/gateway"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	nowFunc          = time.Now          // mockable

	errHelp = errors.New("help provided")
)

// fetcher loads the remote collections.
type fetcher interface {
	FetchAll(ctx context.Context) (gateway.Bundle, error)
}

type commandLine struct {
	conf   *core.Config
	db     *sql.DB
	remote fetcher
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command against the database (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  export [-o DIR]        - write a backup of the remote state to DIR")
	fmt.Fprintln(cli.out, "  diff -file FILE        - show how the remote state differs from a backup")
	fmt.Fprintln(cli.out, "  hashsecret             - hash the registration secret granting the DEV role")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportDir := exportCmd.String("o", ".", "The directory to write the backup to.")
	diffCmd := flag.NewFlagSet("diff", flag.ContinueOnError)
	diffFile := diffCmd.String("file", "", "The backup file to compare the remote state with.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.export(*exportDir)
	case "diff":
		if err := diffCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *diffFile == "" {
			diffCmd.Usage()
			return errHelp
		}
		return cli.diff(*diffFile)
	case "hashsecret":
		fmt.Fprint(cli.out, "Enter secret:")
		secret, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(secret) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.hashSecret(string(secret))
	default:
		cli.printUsage()
		return errHelp
	}
}
