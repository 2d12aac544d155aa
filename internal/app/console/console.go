// Package console is an interactive terminal front end for the users
// panel. It renders the list controller's snapshots as a table and turns
// typed commands into controller calls.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/usersadmin/internal/app/panel"
	"github.com/dalemusser/usersadmin/internal/app/system/paging"
	"github.com/dalemusser/usersadmin/internal/domain/models"
	"go.uber.org/zap"
)

// Prompt is shown while waiting for a command.
const Prompt = "usuarios> "

// cancelWord closes an open form without saving.
const cancelWord = ":cancel"

// Options configures a Console.
type Options struct {
	PageSize   int              // 0 means panel.DefaultPageSize
	Dispatcher panel.Dispatcher // nil means panel.Inline
	Timeout    time.Duration    // per request; 0 means unbounded
	Logger     *zap.Logger
}

// Console wires the panel controllers to a prompter and a writer.
type Console struct {
	prompter Prompter
	list     *panel.ListController
	forms    *panel.RecordFormController
	log      *zap.Logger

	mu  sync.Mutex // serializes writes to out
	out io.Writer
}

// New builds a Console. Output from background refreshes goes to out, so
// out must tolerate writes while the prompter is reading.
func New(api panel.API, p Prompter, out io.Writer, opts Options) *Console {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	dispatch := opts.Dispatcher
	if dispatch == nil {
		dispatch = panel.Inline
	}
	q := panel.DefaultQueryState()
	if opts.PageSize > 0 {
		q.PageSize = opts.PageSize
	}

	c := &Console{prompter: p, out: out, log: log}
	notifier := panel.NotifierFunc(c.note)

	c.list = panel.NewListController(api, notifier,
		panel.WithDispatcher(dispatch),
		panel.WithQueryState(q),
		panel.WithRequestTimeout(opts.Timeout),
		panel.WithListLogger(log.Named("list")),
		panel.WithOnUpdate(func(s panel.Snapshot) {
			c.print(func(w io.Writer) { RenderSnapshot(w, s) })
		}),
	)
	c.forms = panel.NewRecordFormController(api, c.list, notifier, panel.ConfirmerFunc(c.confirm),
		panel.WithMutationTimeout(opts.Timeout),
		panel.WithFormLogger(log.Named("form")),
	)
	return c
}

// List exposes the list controller.
func (c *Console) List() *panel.ListController { return c.list }

// Forms exposes the form controller.
func (c *Console) Forms() *panel.RecordFormController { return c.forms }

func (c *Console) print(fn func(w io.Writer)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.out)
}

func (c *Console) note(message string, severity panel.Severity) {
	c.print(func(w io.Writer) { RenderNote(w, message, severity) })
}

// confirm asks a yes/no question. Ctrl-C or end of input counts as no.
func (c *Console) confirm(_ context.Context, question string) (bool, error) {
	ans, err := c.prompter.ReadLine(question+" [s/N] ", "")
	if errors.Is(err, ErrInterrupt) || errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(ans)) {
	case "s", "si", "sí", "y", "yes":
		return true, nil
	}
	return false, nil
}

// Run loads the first page and processes commands until quit, end of
// input or ctx is done. Ctrl-C at the command prompt is ignored.
func (c *Console) Run(ctx context.Context) error {
	c.print(func(w io.Writer) {
		fmt.Fprintln(w, titleStyle.Render("Usuarios"))
		fmt.Fprintln(w, dimStyle.Render("Type help for the command list."))
	})
	c.list.Refresh()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := c.prompter.ReadLine(Prompt, "")
		switch {
		case errors.Is(err, ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			c.note(err.Error(), panel.SeverityWarning)
			continue
		}
		if cmd.Name == "" {
			continue
		}
		quit, err := c.Execute(ctx, cmd)
		if err != nil {
			c.note(err.Error(), panel.SeverityWarning)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one command. Errors are usage problems for the user to
// see; failed API calls are already reported through notifications.
func (c *Console) Execute(ctx context.Context, cmd Command) (quit bool, err error) {
	c.log.Debug("command", zap.String("name", cmd.Name), zap.Int("args", len(cmd.Args)))

	switch cmd.Name {
	case "quit":
		return true, nil
	case "help":
		c.print(RenderHelp)
	case "list":
		c.list.Refresh()
	case "search":
		c.list.SetSearch(strings.Join(cmd.Args, " "))
	case "status":
		f, err := panel.ParseStatusFilter(strings.ToLower(cmd.Args[0]))
		if err != nil {
			return false, err
		}
		return false, c.list.SetStatusFilter(f)
	case "page":
		n, err := cmd.intArg(0, "page")
		if err != nil {
			return false, err
		}
		return false, c.list.SetPage(int(n) - 1)
	case "next", "prev":
		return false, c.step(cmd.Name == "next")
	case "size":
		n, err := cmd.intArg(0, "size")
		if err != nil {
			return false, err
		}
		if n > paging.MaxLimit {
			return false, fmt.Errorf("size must be at most %d", paging.MaxLimit)
		}
		return false, c.list.SetPageSize(int(n))
	case "sort":
		return false, c.sort(cmd.Args)
	case "new":
		return false, c.dialog(ctx, c.forms.OpenForCreate())
	case "edit":
		rec, err := c.rowArg(cmd)
		if err != nil {
			return false, err
		}
		return false, c.dialog(ctx, c.forms.OpenForEdit(rec))
	case "delete":
		id, err := cmd.intArg(0, "id")
		if err != nil {
			return false, err
		}
		c.quiet(c.forms.Delete(ctx, id))
	case "toggle":
		rec, err := c.rowArg(cmd)
		if err != nil {
			return false, err
		}
		c.quiet(c.forms.ToggleRecord(ctx, rec))
	default:
		return false, fmt.Errorf("unknown command %q", cmd.Name)
	}
	return false, nil
}

// quiet drops errors the controllers have already shown to the user.
func (c *Console) quiet(err error) {
	if err != nil && !errors.Is(err, panel.ErrCancelled) {
		c.log.Debug("action failed", zap.Error(err))
	}
}

func (c *Console) step(forward bool) error {
	s := c.list.Snapshot()
	rg := paging.ComputeRange(s.Query.Page, s.Query.PageSize, len(s.Rows), s.Total)
	if forward {
		if !rg.HasNext {
			return errors.New("already on the last page")
		}
		return c.list.SetPage(s.Query.Page + 1)
	}
	if !rg.HasPrev {
		return errors.New("already on the first page")
	}
	return c.list.SetPage(s.Query.Page - 1)
}

func (c *Console) sort(args []string) error {
	field := strings.ToLower(args[0])
	if field == "off" {
		if len(args) > 1 {
			return fmt.Errorf("usage: %s", usage["sort"])
		}
		c.list.ClearSort()
		return nil
	}
	if !slices.Contains(models.UserSortFields, field) {
		return fmt.Errorf("cannot sort by %q; use one of %s", args[0], strings.Join(models.UserSortFields, ", "))
	}
	dir := panel.SortAsc
	if len(args) > 1 {
		switch d := panel.SortDirection(strings.ToLower(args[1])); d {
		case panel.SortAsc, panel.SortDesc:
			dir = d
		default:
			return fmt.Errorf("sort direction must be asc or desc, got %q", args[1])
		}
	}
	return c.list.SetSort(field, dir)
}

// rowArg resolves the id argument against the rows currently shown.
func (c *Console) rowArg(cmd Command) (models.User, error) {
	id, err := cmd.intArg(0, "id")
	if err != nil {
		return models.User{}, err
	}
	rec, ok := c.list.Row(id)
	if !ok {
		return models.User{}, fmt.Errorf("user %d is not on the current page", id)
	}
	return rec, nil
}

// dialog drives a form session until it saves or the user cancels it.
func (c *Console) dialog(ctx context.Context, s *panel.FormSession) error {
	c.print(func(w io.Writer) {
		fmt.Fprintln(w, titleStyle.Render(s.Title()))
		fmt.Fprintln(w, dimStyle.Render("Type "+cancelWord+" or press Ctrl-C to close without saving."))
	})

	for {
		in, ok, err := c.readForm(s)
		if err != nil || !ok {
			c.forms.Cancel()
			return err
		}

		st, err := c.forms.Submit(ctx, s, in)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, panel.ErrSessionClosed):
			return nil
		case errors.Is(err, panel.ErrSubmitInFlight):
			continue
		}
		c.printFieldErrors(st)
	}
}

var formFields = []struct{ name, label string }{
	{panel.FieldUsername, "Usuario"},
	{panel.FieldPassword, "Password"},
	{panel.FieldConfirmPassword, "Repetir password"},
}

func (c *Console) printFieldErrors(st panel.FormState) {
	if len(st.FieldErrors) == 0 {
		return
	}
	c.print(func(w io.Writer) {
		for _, f := range formFields {
			if msg := st.FieldErrors[f.name]; msg != "" {
				fmt.Fprintln(w, noteStyles[panel.SeverityError].Render("  "+f.label+": "+msg))
			}
		}
	})
}

// readForm prompts for the three fields. ok is false when the user
// cancelled.
func (c *Console) readForm(s *panel.FormSession) (in panel.FormInput, ok bool, err error) {
	values := make(map[string]string, len(formFields))
	for _, f := range formFields {
		var v string
		if f.name == panel.FieldUsername {
			v, err = c.prompter.ReadLine(f.label+": ", s.FieldValue(f.name))
		} else {
			v, err = c.prompter.ReadPassword(f.label + ": ")
		}
		if errors.Is(err, ErrInterrupt) || errors.Is(err, io.EOF) {
			return panel.FormInput{}, false, nil
		}
		if err != nil {
			return panel.FormInput{}, false, err
		}
		if strings.TrimSpace(v) == cancelWord {
			return panel.FormInput{}, false, nil
		}
		values[f.name] = v
	}
	return panel.FormInputFromMap(values), true, nil
}
