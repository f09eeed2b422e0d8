package main

import (
	"context"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	stf, err := cli.staffSvc.GetByUsername(ctx, uname)
	if err != nil {
		return err
	}
	return cli.staffSvc.ResetPassword(ctx, stf, pwd)
}
