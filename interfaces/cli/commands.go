package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"holocron/application/commands"
	"holocron/application/queries"
	"holocron/application/services"
	"holocron/domain/character"
	"holocron/pkg/errors"
)

func (c *CLI) handleSearch(ctx context.Context, args []string) error {
	term := strings.Join(args, " ")
	c.session.HandleSearchChange(term)

	if err := c.waitSettled(ctx, term); err != nil {
		return err
	}
	return c.handleList(nil)
}

// waitSettled blocks until the session has switched to term and the first
// load of it has succeeded or failed.
func (c *CLI) waitSettled(ctx context.Context, term string) error {
	deadline := time.NewTimer(c.settleTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		state := c.session.State()
		settled := state.Status == queries.StatusSuccess || state.Status == queries.StatusError
		if state.DebouncedSearch == term && settled {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("search for %q is still loading", term)
		case <-ticker.C:
		}
	}
}

func (c *CLI) handleMore(ctx context.Context, args []string) error {
	if !c.session.State().HasNextPage {
		fmt.Fprintln(c.out, "No more characters.")
		return nil
	}
	if err := c.session.HandleEndReached(ctx); err != nil {
		return err
	}
	return c.handleList(nil)
}

func (c *CLI) handleRefetch(ctx context.Context, args []string) error {
	if err := c.session.Refetch(ctx); err != nil {
		return err
	}
	return c.handleList(nil)
}

func (c *CLI) handleList(args []string) error {
	state := c.session.State()

	switch {
	case state.IsLoading:
		fmt.Fprintln(c.out, "Loading...")
		return nil
	case state.IsError && len(state.Characters) == 0:
		fmt.Fprintf(c.out, "Error: %s\n", state.Error)
		return nil
	case len(state.Characters) == 0:
		fmt.Fprintln(c.out, "No characters found.")
		return nil
	}

	for _, item := range state.Characters {
		fmt.Fprintf(c.out, "%4s  %s\n", item.ID, item.Name)
	}
	fmt.Fprintf(c.out, "Showing %d of %d.", len(state.Characters), state.Count)
	if state.HasNextPage {
		fmt.Fprint(c.out, " Type 'more' for the next page.")
	}
	fmt.Fprintln(c.out)
	if state.IsError {
		fmt.Fprintf(c.out, "Error: %s\n", state.Error)
	}
	return nil
}

func (c *CLI) handleShow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <id>")
	}
	detail, err := c.detail(ctx, args[0])
	if err != nil {
		return err
	}

	ch := detail.Character
	title := ch.Name
	if detail.HasLocalChanges {
		title += " (edited locally)"
	}
	fmt.Fprintln(c.out, title)
	rows := [][2]string{
		{"Birth year", ch.BirthYear},
		{"Height", ch.Height},
		{"Mass", ch.Mass},
		{"Hair color", ch.HairColor},
		{"Skin color", ch.SkinColor},
		{"Eye color", ch.EyeColor},
		{"Gender", ch.Gender},
		{"Films", fmt.Sprint(len(ch.Films))},
		{"Species", fmt.Sprint(len(ch.Species))},
		{"Vehicles", fmt.Sprint(len(ch.Vehicles))},
		{"Starships", fmt.Sprint(len(ch.Starships))},
	}
	for _, row := range rows {
		fmt.Fprintf(c.out, "  %-11s %s\n", row[0]+":", row[1])
	}
	return nil
}

func (c *CLI) handleEdit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: edit <id> <field>=<value>...")
	}
	detail, err := c.detail(ctx, args[0])
	if err != nil {
		return err
	}

	form := detail.Form
	for _, arg := range args[1:] {
		field, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected <field>=<value>, got %q", arg)
		}
		if !form.Set(field, value) {
			return fmt.Errorf("unknown field %q (editable: %s)", field, strings.Join(character.EditableFields, ", "))
		}
	}

	err = c.commandBus.Send(ctx, commands.SaveCharacterEditCommand{
		Original: detail.Character,
		Form:     form,
	})
	if fieldErrs, ok := errors.AsValidationErrors(err); ok {
		for _, field := range fieldErrs.Fields() {
			fmt.Fprintf(c.out, "  %s: %s\n", field, fieldErrs.First(field))
		}
		return fmt.Errorf("character was not saved")
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, services.SavedMessage)
	return nil
}

func (c *CLI) handleReset(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: reset <id>")
	}
	detail, err := c.detail(ctx, args[0])
	if err != nil {
		return err
	}
	if !detail.HasLocalChanges {
		fmt.Fprintf(c.out, "%s has no local edit.\n", detail.Character.Name)
		return nil
	}
	if err := c.commandBus.Send(ctx, commands.ResetCharacterEditCommand{URL: detail.Character.URL}); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Discarded the local edit of %s.\n", detail.Character.Name)
	return nil
}

func (c *CLI) handleEdits(ctx context.Context, args []string) error {
	result, err := c.queryBus.Ask(ctx, queries.ListPendingEditsQuery{})
	if err != nil {
		return err
	}
	edits, ok := result.(*queries.ListPendingEditsResult)
	if !ok {
		return fmt.Errorf("unexpected edits result %T", result)
	}
	if edits.Count == 0 {
		fmt.Fprintln(c.out, "No local edits.")
		return nil
	}
	for _, edit := range edits.Edits {
		fmt.Fprintf(c.out, "%4s  %s\n", edit.ID, edit.Name)
	}
	return nil
}

func (c *CLI) handleClear(ctx context.Context, args []string) error {
	if err := c.commandBus.Send(ctx, commands.ClearCharacterEditsCommand{}); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Discarded every local edit.")
	return nil
}

func (c *CLI) detail(ctx context.Context, id string) (*queries.GetCharacterResult, error) {
	result, err := c.queryBus.Ask(ctx, queries.GetCharacterQuery{ID: id})
	if err != nil {
		return nil, err
	}
	detail, ok := result.(*queries.GetCharacterResult)
	if !ok {
		return nil, fmt.Errorf("unexpected character result %T", result)
	}
	return detail, nil
}
