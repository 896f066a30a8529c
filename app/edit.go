package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/internal/timeutil"
	"github.com/ayoisaiah/cashtimer/ledger"
)

var errPauseStartRequired = errors.New("--start is required when adding a pause")

// requireArgs returns the positional arguments of a command, which must
// match names in number.
func requireArgs(ctx *cli.Context, names ...string) ([]string, error) {
	args := ctx.Args().Slice()
	if len(args) != len(names) {
		return nil, fmt.Errorf(
			"%s expects %d argument(s): <%s>",
			ctx.Command.Name,
			len(names),
			strings.Join(names, "> <"),
		)
	}

	return args, nil
}

// parseTime resolves a user supplied time against the ledger's clock. An
// empty string yields nil.
func (e *env) parseTime(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	t, err := timeutil.FromStr(s, e.ledger.Now().Local())
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// confirm prints the warning and waits for the user to press ENTER.
func confirm(r io.Reader, w io.Writer, msg string) {
	fmt.Fprint(w, pterm.Warning.Sprint(msg+". Press ENTER to proceed"))

	reader := bufio.NewReader(r)

	_, _ = reader.ReadString('\n')
}

// editBoundaryAction returns the action of the edit start and edit end
// commands.
func editBoundaryAction(which ledger.Boundary) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		return withLedger(ctx, func(e *env) error {
			args, err := requireArgs(ctx, "session-id", "time")
			if err != nil {
				return err
			}

			ts, err := e.parseTime(args[1])
			if err != nil {
				return err
			}

			if ts == nil {
				return fmt.Errorf("a time is required to edit the %s of a session", which)
			}

			var target ledger.EditTarget = ledger.SessionStart{At: *ts}
			if which == ledger.End {
				target = ledger.SessionEnd{At: *ts}
			}

			sess, err := e.ledger.Edit(ctx.Context, args[0], target)
			if err != nil {
				return err
			}

			e.printEdited(sess)

			return nil
		})
	}
}

// editPauseAction handles edit pause, which changes an existing pause when
// --pause is set and adds a new one otherwise.
func editPauseAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		args, err := requireArgs(ctx, "session-id")
		if err != nil {
			return err
		}

		start, err := e.parseTime(ctx.String("start"))
		if err != nil {
			return err
		}

		end, err := e.parseTime(ctx.String("end"))
		if err != nil {
			return err
		}

		var target ledger.EditTarget

		if pauseID := ctx.String("pause"); pauseID != "" {
			target = ledger.PauseAt{PauseID: pauseID, Start: start, End: end}
		} else {
			if start == nil {
				return errPauseStartRequired
			}

			target = ledger.NewPause{Start: *start, End: end}
		}

		sess, err := e.ledger.Edit(ctx.Context, args[0], target)
		if err != nil {
			return err
		}

		e.printEdited(sess)

		return nil
	})
}

func (e *env) printEdited(sess *models.Session) {
	now := e.ledger.Now()

	pterm.Success.Printfln("Session %s updated", sess.ID)
	printSessionsTable(e.out, localize([]*models.Session{sess}), e.rateSymbol(), now)

	if len(sess.Pauses) > 0 {
		printPausesTable(e.out, sess, now)
	}
}

// deleteAction handles the delete command. It requests confirmation before
// removing the session permanently.
func deleteAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		args, err := requireArgs(ctx, "session-id")
		if err != nil {
			return err
		}

		sess, err := e.ledger.Session(args[0])
		if err != nil {
			return err
		}

		if !ctx.Bool("yes") {
			printSessionsTable(
				e.out,
				localize([]*models.Session{sess}),
				e.rateSymbol(),
				e.ledger.Now(),
			)
			confirm(e.in, e.out, "The above session will be deleted permanently")
		}

		err = e.ledger.DeleteSession(ctx.Context, sess.ID)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Session %s deleted", sess.ID)

		return nil
	})
}

// deletePauseAction handles the delete-pause command.
func deletePauseAction(ctx *cli.Context) error {
	return withLedger(ctx, func(e *env) error {
		args, err := requireArgs(ctx, "session-id", "pause-id")
		if err != nil {
			return err
		}

		sess, err := e.ledger.DeletePause(ctx.Context, args[0], args[1])
		if err != nil {
			return err
		}

		e.printEdited(sess)

		return nil
	})
}
