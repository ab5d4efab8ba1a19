package cli

import (
	"context"
	"fmt"
	"os"
)

// Profile fetches the profile from the backend and prints it.
func (a *App) Profile(ctx context.Context) error {
	profile, err := a.sessions.RefreshProfile(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Printf("Email:     %s\n", profile.Email)
	fmt.Printf("Full name: %s\n", profile.FullName)
	if profile.Phone != "" {
		fmt.Printf("Phone:     %s\n", profile.Phone)
	}
	if profile.HomeAddress != "" {
		fmt.Printf("Address:   %s, %s %s\n", profile.HomeAddress, profile.Country, profile.Pincode)
	}
	fmt.Printf("Screening: complete=%v\n", profile.InitialScreeningCompleted)
	return nil
}

// UpdateAddress prompts for the home address fields and pushes them to the
// backend. The cached profile is replaced with the server's response.
func (a *App) UpdateAddress(ctx context.Context) error {
	address, err := GetSimpleText(a.reader, "Enter home address", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	country, err := GetSimpleText(a.reader, "Enter country", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	pincode, err := GetSimpleText(a.reader, "Enter pincode", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	_, err = a.sessions.UpdateProfile(ctx, map[string]any{
		"homeAddress": address,
		"country":     country,
		"pincode":     pincode,
	})
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Profile updated")
	return nil
}

// Screening collects the initial screening answers and submits them. Answers
// are read one per question on a 0-3 scale; an empty line finishes the form.
func (a *App) Screening(ctx context.Context) error {
	responses := make(map[int]int)

	for q := 1; ; q++ {
		text, err := GetSimpleText(a.reader,
			fmt.Sprintf("Answer for question %d (0-3, empty line to finish)", q), os.Stdout)
		if err != nil {
			fmt.Println(err.Error())
			return err
		}
		if text == "" {
			break
		}
		var answer int
		if _, err := fmt.Sscanf(text, "%d", &answer); err != nil || answer < 0 || answer > 3 {
			fmt.Println("Please enter a number between 0 and 3")
			q--
			continue
		}
		responses[q] = answer
	}

	if len(responses) == 0 {
		fmt.Println("No answers entered")
		return nil
	}

	result, _, err := a.sessions.CompleteInitialScreening(ctx, responses)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Printf("Score: %d, severity: %s\n", result.Score, result.Severity)
	if result.Diagnosis != "" {
		fmt.Printf("Diagnosis: %s\n", result.Diagnosis)
	}
	return nil
}
