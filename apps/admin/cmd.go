package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/storage/jsondb"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	acctSvc  account.Service
	store    jsondb.Persister
	validate *validator.Validate
	out      io.Writer
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	out := cli.out
	if out == nil {
		out = os.Stdout
	}
	_, _ = fmt.Fprintf(out, format, args...)
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  resetpassword -email EMAIL - reset an account's password\n")
	cli.printf("  resetpassword -all - reset the password of every account\n")
	cli.printf("  adduser -kind user|instructor|admin -name NAME -email EMAIL [-subject SUBJECT] [-availability \"Monday 9-12;Tuesday 14-17\"] - add an account\n")
}

func (cli *commandLine) readPassword() (string, error) {
	cli.printf("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	cli.printf("\n")
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The account's email. The password will be prompted next.")
	resetPasswordAll := resetPasswordCmd.Bool("all", false, "Reset the password of every account. The password will be prompted next.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserKind := addUserCmd.String("kind", string(account.RoleUser), "The kind of account: user, instructor or admin.")
	addUserName := addUserCmd.String("name", "", "The account's name.")
	addUserEmail := addUserCmd.String("email", "", "The account's email. The password will be prompted next.")
	addUserSubject := addUserCmd.String("subject", "", "The subject taught (instructors only).")
	addUserAvailability := addUserCmd.String("availability", "", "Semicolon separated time slots (instructors only).")

	switch args[1] {
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if (*resetPasswordEmail == "") == !*resetPasswordAll {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		if *resetPasswordAll {
			return cli.resetAllPasswords(pwd)
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(account.NewAccount{
			Role:         account.Role(*addUserKind),
			Name:         *addUserName,
			Email:        *addUserEmail,
			Password:     pwd,
			Subject:      *addUserSubject,
			Availability: splitSlots(*addUserAvailability),
		})
	default:
		cli.printUsage()
		return errHelp
	}
}

func splitSlots(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ";")
}
