package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/omi-1602/Venz-edu/core/account"
	"github.com/omi-1602/Venz-edu/core/seed"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	accountSvc account.ServiceInterface
	seedSvc    seed.ServiceInterface
	openDB     func() (*sql.DB, error) // postgres only
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -email EMAIL -name NAME -role ROLE - create a verified user, the password is prompted")
	fmt.Println("  verifyemail -uid UID - mark a user's email as verified")
	fmt.Println("  seed -token TOKEN - write the sample dataset")
	fmt.Println("  migrate COMMAND [ARGS...] - run goose migrations on the postgres document store")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserName := addUserCmd.String("name", "", "The user's display name.")
	addUserRole := addUserCmd.String("role", account.RoleAdmin, "One of student, mentor, admin.")

	verifyEmailCmd := flag.NewFlagSet("verifyemail", flag.ContinueOnError)
	verifyEmailUID := verifyEmailCmd.String("uid", "", "The user's uid.")

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	seedToken := seedCmd.String("token", "", "The seed token.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserEmail, *addUserName, *addUserRole, string(pwd))
	case "verifyemail":
		if err := verifyEmailCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *verifyEmailUID == "" {
			verifyEmailCmd.Usage()
			return errHelp
		}
		return cli.verifyEmail(*verifyEmailUID)
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.seed(*seedToken)
	case "migrate":
		if len(args) < 3 {
			fmt.Println("Usage: migrate COMMAND [ARGS...]")
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
