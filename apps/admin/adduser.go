package main

import (
	"context"
	"fmt"

	"github.com/omi-1602/Venz-edu/core/account"
)

// addUser creates a verified account, bypassing the signup role restriction.
func (cli *commandLine) addUser(email, name, role, pwd string) error {
	usr, err := cli.accountSvc.Provision(context.Background(), account.ProvisionRequest{
		Email:       email,
		Password:    pwd,
		DisplayName: name,
		Role:        role,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s <%s> as %s, uid %s\n", usr.DisplayName, usr.Email, usr.Role, usr.UID)
	return nil
}
