package cmd

import (
	"context"
	"fmt"

	"aistylist/services"

	"github.com/spf13/cobra"
)

func newWeatherCmd(a *app) *cobra.Command {
	var location string
	var days int
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Show the current weather and the label the composer would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := services.NewWeatherServiceFromEnv(a.log)
			if err != nil {
				return err
			}
			return printWeather(context.Background(), cmd, svc, location, days)
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", "", "city, defaults to WEATHER_LOCATION")
	cmd.Flags().IntVar(&days, "days", 0, "also print a forecast of this many days")
	return cmd
}

func printWeather(ctx context.Context, cmd *cobra.Command, svc services.WeatherServiceProvider, location string, days int) error {
	out := cmd.OutOrStdout()
	report, err := svc.Current(ctx, location)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %.0f°C, %s, humidity %d%%, wind %.1f km/h\n",
		report.Location, report.Temperature, report.Condition, report.Humidity, report.WindSpeed)
	if report.Fallback {
		fmt.Fprintln(out, "(weather API unavailable, showing a default reading)")
	}
	fmt.Fprintf(out, "Label: %s\n", services.LabelFor(report))
	fmt.Fprintln(out, services.Recommendation(report))

	if days <= 0 {
		return nil
	}
	forecast, err := svc.Forecast(ctx, location, days)
	if err != nil {
		return err
	}
	for _, day := range forecast {
		fmt.Fprintf(out, "  %s %-9s %3.0f°C %s\n", day.Date, day.Day, day.Temperature, day.Condition)
	}
	return nil
}
