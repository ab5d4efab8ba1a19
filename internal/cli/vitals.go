package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mindtrap/client/internal/api"
)

// Vitals lists recent vitals readings, or records a new one when called as
// "vitals add".
func (a *App) Vitals(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "add" {
		return a.addVital(ctx)
	}

	page, err := a.backend.Vitals(ctx, 0, 20)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if len(page.Content) == 0 {
		fmt.Println("No vitals recorded")
		return nil
	}

	for _, v := range page.Content {
		flag := ""
		if v.IsEmergency {
			flag = " [EMERGENCY]"
		}
		fmt.Printf("%s  HR %d  BP %d/%d  SpO2 %.1f  T %.1f%s\n",
			v.CreatedAt, v.HeartRate,
			v.BloodPressureSystolic, v.BloodPressureDiastolic,
			v.OxygenSaturation, v.Temperature, flag)
	}
	return nil
}

func (a *App) addVital(ctx context.Context) error {
	hr, err := GetInt(a.reader, "Heart rate (bpm)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	sys, err := GetInt(a.reader, "Blood pressure systolic", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	dia, err := GetInt(a.reader, "Blood pressure diastolic", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	reading, err := a.backend.CreateVital(ctx, api.CreateVitalReadingRequest{
		HeartRate:              hr,
		BloodPressureSystolic:  sys,
		BloodPressureDiastolic: dia,
	})
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if reading.IsEmergency {
		fmt.Println("Reading saved. WARNING: values look critical, emergency contacts were notified.")
	} else {
		fmt.Println("Reading saved")
	}
	return nil
}
