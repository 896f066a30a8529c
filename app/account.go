package app

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cashtimer/identity"
	"github.com/ayoisaiah/cashtimer/internal/osutil"
	"github.com/ayoisaiah/cashtimer/internal/pathutil"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// promptEmail is replaced in tests.
var promptEmail = identity.PromptEmail

// email returns --email or asks for it.
func email(ctx *cli.Context, title string) (string, error) {
	if e := ctx.String("email"); e != "" {
		return e, nil
	}

	return promptEmail(title)
}

// signUpAction handles the signup command which creates an account and
// signs into it.
func signUpAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		addr, err := email(ctx, "Email address for your new account")
		if err != nil {
			return err
		}

		user, err := e.identity.SignUp(ctx.Context, addr)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Account created. Signed in as %s", user.Email)

		return nil
	})
}

// signInAction handles the signin command.
func signInAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		addr, err := email(ctx, "Email address")
		if err != nil {
			return err
		}

		user, err := e.identity.SignIn(ctx.Context, addr)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Signed in as %s", user.Email)

		return nil
	})
}

// signOutAction handles the signout command.
func signOutAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		err := e.identity.SignOut(ctx.Context)
		if err != nil {
			return err
		}

		pterm.Success.Println("Signed out")

		return nil
	})
}

// whoamiAction prints the signed in account.
func whoamiAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		user, err := e.identity.Current(ctx.Context)
		if err != nil {
			return err
		}

		pterm.Info.Printfln("Signed in as %s", user.Email)

		return nil
	})
}

// editConfigAction handles the edit-config command which opens the config
// file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	err := pathutil.Initialize()
	if err != nil {
		return err
	}

	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}
