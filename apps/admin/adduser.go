package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/grow/core"
	"github.com/trezcool/grow/core/user"
)

// addUser updates or creates a user account.
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			ID:        uuid.New().String(),
			Username:  uname,
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	usr.IsAdmin = isAdmin
	usr.SetActive(true)
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = cli.usrRepo.UpdateOrCreateUser(ctx, usr)
	return err
}
