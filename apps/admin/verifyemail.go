package main

import (
	"context"
	"fmt"

	"github.com/omi-1602/Venz-edu/core/account"
)

func (cli *commandLine) verifyEmail(uid string) error {
	res, err := cli.accountSvc.VerifyEmail(context.Background(), account.VerifyEmailRequest{UID: uid})
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	return nil
}
