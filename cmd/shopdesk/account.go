package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
)

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *password == "" {
		fmt.Fprint(a.out, "password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading password")
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	if err := a.sess.Login(ctx, *email, *password); err != nil {
		return err
	}
	profile, err := a.sess.CurrentUser()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s %s <%s>\n", profile.FirstName, profile.LastName, profile.Email)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	if err := a.sess.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *app) cmdMe(ctx context.Context) error {
	if err := a.hydrate(ctx); err != nil {
		return err
	}
	profile, err := a.sess.CurrentUser()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s <%s>\n", profile.FirstName, profile.LastName, profile.Email)
	if profile.AgentID != "" {
		fmt.Fprintf(a.out, "agent id: %s\n", profile.AgentID)
	}
	if profile.PhoneNumber != "" {
		fmt.Fprintf(a.out, "phone:    %s\n", profile.PhoneNumber)
	}
	if profile.State != "" {
		fmt.Fprintf(a.out, "state:    %s\n", profile.State)
	}
	if profile.IsAdmin {
		fmt.Fprintln(a.out, "role:     admin")
	}
	return nil
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "update" {
		return pkgerrors.New(pkgerrors.CodeValidation, "profile needs the update subcommand")
	}

	fs := flag.NewFlagSet("profile update", flag.ContinueOnError)
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	phone := fs.String("phone", "", "phone number in E.164 form")
	address := fs.String("address", "", "street address")
	state := fs.String("state", "", "state of residence")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	update := profileUpdateFrom(fs, *firstName, *lastName, *phone, *address, *state)
	if update == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "nothing to update, pass at least one flag")
	}

	if err := a.hydrate(ctx); err != nil {
		return err
	}
	profile, err := a.sess.UpdateProfile(ctx, *update)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "profile updated: %s %s\n", profile.FirstName, profile.LastName)
	return nil
}
