package main

import (
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/account"
)

// addUser creates an account of any kind.
func (cli *commandLine) addUser(na account.NewAccount) error {
	if err := na.Validate(cli.validate, cli.acctSvc); err != nil {
		return err
	}
	acct, err := cli.acctSvc.Add(na)
	if err != nil {
		return err
	}
	if err := cli.store.Persist(); err != nil {
		return errors.Wrap(err, "saving database")
	}
	cli.printf("Added %s %q (%s)\n", acct.Role, acct.Email, acct.ID)
	return nil
}
