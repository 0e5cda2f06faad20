package main

import (
	"github.com/pkg/errors"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	if err := cli.acctSvc.ResetPassword(email, pwd); err != nil {
		return err
	}
	if err := cli.store.Persist(); err != nil {
		return errors.Wrap(err, "saving database")
	}
	cli.printf("Password updated for %s\n", email)
	return nil
}

func (cli *commandLine) resetAllPasswords(pwd string) error {
	n, err := cli.acctSvc.ResetAllPasswords(pwd)
	if err != nil {
		return err
	}
	if err := cli.store.Persist(); err != nil {
		return errors.Wrap(err, "saving database")
	}
	cli.printf("Password updated for %d accounts\n", n)
	return nil
}
