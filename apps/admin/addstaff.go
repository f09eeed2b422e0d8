package main

import (
	"context"

	"github.com/prct/registrar/core/staff"
)

// addStaff creates a staff account with a freshly hashed password.
func (cli *commandLine) addStaff(uname, name, pwd string) error {
	_, err := cli.staffSvc.Create(context.Background(), staff.NewStaff{
		Name:     name,
		Username: uname,
		Password: pwd,
	})
	return err
}
