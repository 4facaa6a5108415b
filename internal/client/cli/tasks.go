package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

func (a *App) List(ctx context.Context) error {
	tasks, err := a.taskService.List(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks yet (use 'add')")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tTITLE\tUPDATED")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, checkbox(t.Completed), t.Title, t.UpdatedAt.Local().Format(timeLayout))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d task(s)\n", len(tasks))
	return nil
}

func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return err
	}

	t, err := a.taskService.Create(ctx, title, description)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Task %d created\n", t.ID)
	return nil
}

func (a *App) Show(ctx context.Context, id int64) error {
	t, err := a.taskService.Get(ctx, id)
	if err != nil {
		return err
	}
	printTask(a.out, t)
	return nil
}

// Edit prompts for a new title and description. An empty answer keeps the
// current value; "-" clears the description.
func (a *App) Edit(ctx context.Context, id int64) error {
	current, err := a.taskService.Get(ctx, id)
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("New title [%s]", current.Title), a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, fmt.Sprintf("New description [%s] (- to clear)", current.Description), a.out)
	if err != nil {
		return err
	}

	var patch models.TaskPatch
	if title != "" {
		patch.Title = &title
	}
	switch description {
	case "":
	case "-":
		empty := ""
		patch.Description = &empty
	default:
		patch.Description = &description
	}
	if patch.Title == nil && patch.Description == nil {
		fmt.Fprintln(a.out, "Nothing changed")
		return nil
	}

	t, err := a.taskService.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	printTask(a.out, t)
	return nil
}

// Done toggles completion.
func (a *App) Done(ctx context.Context, id int64) error {
	t, err := a.taskService.Toggle(ctx, id)
	if err != nil {
		return err
	}
	if t.Completed {
		fmt.Fprintf(a.out, "Task %d marked as done\n", t.ID)
	} else {
		fmt.Fprintf(a.out, "Task %d marked as not done\n", t.ID)
	}
	return nil
}

func (a *App) Delete(ctx context.Context, id int64) error {
	ok, err := GetConfirmation(a.reader, fmt.Sprintf("Delete task %d?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.taskService.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Task %d deleted\n", id)
	return nil
}

func printTask(w io.Writer, t *models.Task) {
	fmt.Fprintf(w, "#%d %s %s\n", t.ID, checkbox(t.Completed), t.Title)
	if t.Description != "" {
		fmt.Fprintf(w, "  %s\n", t.Description)
	}
	fmt.Fprintf(w, "  created %s, updated %s\n",
		t.CreatedAt.Local().Format(timeLayout), t.UpdatedAt.Local().Format(timeLayout))
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
