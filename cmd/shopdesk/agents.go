package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/types"
)

func (a *app) cmdAgentsList(ctx context.Context) error {
	if err := a.hydrate(ctx); err != nil {
		return err
	}
	agents, err := a.client.ListAgents(ctx)
	if err != nil {
		return err
	}
	if len(agents) == 0 {
		fmt.Fprintln(a.out, "no agents registered")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSTATE\tACTIVE\tSINCE")
	for _, agent := range agents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
			agent.AgentID, agent.DisplayName(), agent.User.Email,
			agent.State, agent.IsActive, agent.DateCreated.Format("2006-01-02"))
	}
	return w.Flush()
}

func (a *app) cmdAgentCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("agents create", flag.ContinueOnError)
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	email := fs.String("email", "", "account email")
	phone := fs.String("phone", "", "phone number in E.164 form")
	address := fs.String("address", "", "street address")
	state := fs.String("state", "", "operating state")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.hydrate(ctx); err != nil {
		return err
	}
	agent, err := a.client.CreateAgent(ctx, types.CreateAgentRequest{
		FirstName:   *firstName,
		LastName:    *lastName,
		Email:       *email,
		PhoneNumber: *phone,
		Address:     *address,
		State:       *state,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "agent %s %s created\n", agent.AgentID, agent.DisplayName())
	return nil
}

func (a *app) cmdAgentUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("agents update", flag.ContinueOnError)
	id := fs.String("id", "", "agent id")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	phone := fs.String("phone", "", "phone number in E.164 form")
	address := fs.String("address", "", "street address")
	state := fs.String("state", "", "operating state")
	active := fs.Bool("active", true, "whether the agent may log in")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "--id is required")
	}

	set := setFlags(fs)
	update := types.UpdateAgentRequest{}
	touched := false
	if set["first-name"] {
		update.FirstName = firstName
		touched = true
	}
	if set["last-name"] {
		update.LastName = lastName
		touched = true
	}
	if set["phone"] {
		update.PhoneNumber = phone
		touched = true
	}
	if set["address"] {
		update.Address = address
		touched = true
	}
	if set["state"] {
		update.State = state
		touched = true
	}
	if set["active"] {
		update.IsActive = active
		touched = true
	}
	if !touched {
		return pkgerrors.New(pkgerrors.CodeValidation, "nothing to update, pass at least one flag")
	}

	if err := a.hydrate(ctx); err != nil {
		return err
	}
	agent, err := a.client.UpdateAgent(ctx, *id, update)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "agent %s updated\n", agent.AgentID)
	return nil
}
