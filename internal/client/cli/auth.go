package cli

import (
	"context"
	"fmt"
)

// Register prompts for name, CPF and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "-Enter name", a.out)
	if err != nil {
		return err
	}
	cpf, err := GetSimpleText(a.reader, "-Enter CPF", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	u, err := a.authService.Register(ctx, name, cpf, password)
	if err != nil {
		return err
	}

	a.setUserName(u.Name)
	fmt.Fprintf(a.out, "Registered as %s\n", u.Name)
	return nil
}

// Login prompts for CPF and password and stores the issued token.
func (a *App) Login(ctx context.Context) error {
	cpf, err := GetSimpleText(a.reader, "-Enter CPF", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	u, err := a.authService.Login(ctx, cpf, password)
	if err != nil {
		return err
	}

	a.setUserName(u.Name)
	fmt.Fprintf(a.out, "Logged in as %s\n", u.Name)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.setUserName("")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
