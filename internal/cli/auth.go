package cli

import (
	"context"
	"fmt"
	"os"
)

// Register prompts for the account details and creates a new account. On
// success the session is live immediately; no separate login step is needed.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fullName, err := GetSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if _, err := a.sessions.Register(ctx, email, string(password), fullName); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Success!")
	a.currentPath = a.landingDecision()
	return nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if _, err := a.sessions.Login(ctx, email, string(password)); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Success!")
	a.currentPath = a.landingDecision()
	return nil
}

// Logout ends the session. Local state is cleared even when the backend
// call fails.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Logout(ctx); err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Println("Logged out")
	a.currentPath = a.landingDecision()
	return nil
}
