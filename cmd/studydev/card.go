package main

import (
	"context"
	"fmt"

	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/service"
)

var cardCommands = map[string]func(ctx context.Context, c *cli, args []string) error{
	"add":      runCardAdd,
	"list":     runCardList,
	"show":     runCardShow,
	"edit":     runCardEdit,
	"delete":   runCardDelete,
	"postpone": runCardPostpone,
}

func runCard(ctx context.Context, c *cli, args []string) error {
	if len(args) == 0 {
		return usageErrorf("missing card subcommand")
	}
	sub, ok := cardCommands[args[0]]
	if !ok {
		return usageErrorf("unknown card subcommand %q", args[0])
	}
	return sub(ctx, c, args[1:])
}

func runCardAdd(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "card add")
	subject := fs.StringP("subject", "s", "", "subject the card belongs to")
	front := fs.StringP("front", "f", "", "question side")
	back := fs.StringP("back", "b", "", "answer side")
	tags := fs.StringSliceP("tags", "t", nil, "comma-separated tags")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *subject == "" || *front == "" || *back == "" {
		return usageErrorf("--subject, --front and --back are required")
	}

	app, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	card, err := app.cardService.CreateCard(ctx, service.CreateCardRequest{
		Subject: *subject,
		Front:   *front,
		Back:    *back,
		Tags:    *tags,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "Added card %d to %s, first review %s\n",
		card.ID, card.Subject, dueLabel(card.DueDate, app.clock.Now()))
	return nil
}

func runCardList(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "card list")
	subject := fs.StringP("subject", "s", "", "only list cards of this subject")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	app, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	cards, err := app.cardService.ListCards(ctx, *subject)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Fprintln(c.stdout, "No cards yet. Add one with: studydev card add --subject S --front Q --back A")
		return nil
	}
	return printCardTable(c.stdout, cards)
}

func runCardShow(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "card show")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	id, err := cardIDArg(fs)
	if err != nil {
		return err
	}

	app, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	card, err := app.cardService.GetCard(ctx, id)
	if err != nil {
		return err
	}
	return printCard(c.stdout, card, app.clock.Now())
}

func runCardEdit(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "card edit")
	subject := fs.StringP("subject", "s", "", "new subject")
	front := fs.StringP("front", "f", "", "new question side")
	back := fs.StringP("back", "b", "", "new answer side")
	tags := fs.StringSliceP("tags", "t", nil, "replace tags; pass --tags= to clear")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	id, err := cardIDArg(fs)
	if err != nil {
		return err
	}

	var req service.UpdateCardRequest
	if fs.Changed("subject") {
		req.Subject = subject
	}
	if fs.Changed("front") {
		req.Front = front
	}
	if fs.Changed("back") {
		req.Back = back
	}
	if fs.Changed("tags") {
		req.Tags = append([]string{}, *tags...)
	}

	app, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	card, err := app.cardService.UpdateCard(ctx, id, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Updated card %d\n", card.ID)
	return nil
}

func runCardDelete(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "card delete")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	id, err := cardIDArg(fs)
	if err != nil {
		return err
	}

	app, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	if err := app.cardService.DeleteCard(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Deleted card %d\n", id)
	return nil
}

func runCardPostpone(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "card postpone")
	days := fs.IntP("days", "d", 1, "number of days to push the due date")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	id, err := cardIDArg(fs)
	if err != nil {
		return err
	}

	app, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	card, err := app.cardReviewService.Postpone(ctx, id, *days)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Card %d now due %s\n", card.ID, card.DueDate.Format(domain.DateLayout))
	return nil
}
