package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"syscall"

	"golang.org/x/term"

	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db       *sql.DB
	usrSvc   *user.Service
	classSvc *classroom.ClassService
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) against the embedded migrations")
	fmt.Println("  resetpassword -email EMAIL - reset a user's password")
	fmt.Println("  joincode -class ID - give a class a new join code")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	joinCodeCmd := flag.NewFlagSet("joincode", flag.ContinueOnError)
	joinCodeClass := joinCodeCmd.String("class", "", "The id of the class.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, string(pwd))

	case "joincode":
		if err := joinCodeCmd.Parse(args[2:]); err != nil {
			return err
		}
		classID, err := strconv.Atoi(*joinCodeClass)
		if err != nil || classID <= 0 {
			joinCodeCmd.Usage()
			return errHelp
		}
		return cli.resetJoinCode(classID)

	default:
		cli.printUsage()
		return errHelp
	}
}
