package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/arogyavritti/backend/internal/emergency"
	"github.com/arogyavritti/backend/pkg/geo"
)

func nearbyCmd() *cobra.Command {
	var (
		city     string
		lat, lon float64
		wait     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "Find hospitals near a preset city, a coordinate, or your IP location",
		RunE: func(cmd *cobra.Command, args []string) error {
			latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
			if latSet != lonSet {
				return errors.New("--lat and --lon must be given together")
			}
			if city != "" && latSet {
				return errors.New("use either --city or --lat/--lon")
			}

			c, err := newBackendClient(cmd)
			if err != nil {
				return err
			}

			var sensor emergency.Sensor
			if latSet {
				point := geo.Coordinate{Latitude: lat, Longitude: lon}
				if !point.Valid() {
					return errors.New("lat must be within [-90, 90] and lon within [-180, 180]")
				}
				sensor = fixedSensor{point: point}
			}

			session := emergency.NewSession(c, sensor)
			defer session.Close()

			var st emergency.State
			if city != "" {
				if err := session.SelectPreset(cmd.Context(), city); err != nil {
					return err
				}
				st = session.State()
			} else {
				ctx, cancel := context.WithTimeout(cmd.Context(), wait)
				defer cancel()
				st, err = awaitResult(ctx, session)
				if err != nil {
					return err
				}
			}

			if st.Err != "" {
				return errors.New(st.Err)
			}
			render(cmd.OutOrStdout(), emergency.BuildView(st.Origin, st.Label, st.Approximate, st.Facilities))
			return nil
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "Preset city name (see 'arogya locations')")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude of the search origin")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude of the search origin")
	cmd.Flags().DurationVar(&wait, "wait", 20*time.Second, "How long to wait for results")
	return cmd
}

// awaitResult starts the session and waits until the first lookup has settled.
func awaitResult(ctx context.Context, session *emergency.Session) (emergency.State, error) {
	session.Start(ctx)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		st := session.State()
		if settled(st) {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return st, fmt.Errorf("no result before timeout: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func settled(st emergency.State) bool {
	if st.Err != "" {
		return true
	}
	return st.HasOrigin && !st.Loading && st.Label != ""
}

// fixedSensor reports a single position given on the command line.
type fixedSensor struct {
	point geo.Coordinate
}

func (s fixedSensor) Watch(ctx context.Context, _ emergency.WatchOptions) (<-chan emergency.Fix, error) {
	fixes := make(chan emergency.Fix, 1)
	fixes <- emergency.Fix{Coordinate: s.point}
	close(fixes)
	return fixes, nil
}

func render(w io.Writer, v emergency.View) {
	label := v.Label
	if label == "" {
		label = emergency.UnknownLocation
	}
	fmt.Fprintf(w, "Location: %s (%s)\n", label, v.Center)
	if v.Notice != "" {
		fmt.Fprintln(w, v.Notice)
	}

	if len(v.Items) == 0 {
		fmt.Fprintln(w, "No hospitals found nearby.")
		return
	}

	for i, item := range v.Items {
		fmt.Fprintf(w, "\n%d. %s (%s)\n", i+1, item.Name, item.Distance)
		if item.AddressLine != "" {
			fmt.Fprintf(w, "   %s\n", item.AddressLine)
		}
		if item.CityLine != "" {
			fmt.Fprintf(w, "   %s\n", item.CityLine)
		}
		if item.PhoneLink != "" {
			fmt.Fprintf(w, "   Phone: %s\n", item.Phone)
		}
		if item.Website != "" {
			fmt.Fprintf(w, "   Website: %s\n", item.Website)
		}
	}
}
