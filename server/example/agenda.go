package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/client"
	"github.com/cyp0633/calview/recurrence"
	"github.com/cyp0633/calview/view"
)

type agendaOptions struct {
	server   string
	date     string
	week     bool
	search   string
	username string
	password string
}

func newAgendaCmd() *cobra.Command {
	opts := agendaOptions{}

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print the events of a day or week from a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			anchor := calendar.DateOf(time.Now())
			if opts.date != "" {
				d, err := calendar.ParseDate(opts.date)
				if err != nil {
					return err
				}
				anchor = d
			}

			cfg := client.DefaultConfig()
			cfg.Username, cfg.Password = opts.username, opts.password
			c, err := client.New(opts.server, cfg)
			if err != nil {
				return err
			}

			events, err := c.ReadEvents().Search(opts.search).Week(anchor).Do(cmd.Context())
			if err != nil {
				return err
			}

			days := []calendar.Date{anchor}
			if opts.week {
				days = view.WeekDates(anchor)
			}
			printAgenda(cmd.OutOrStdout(), recurrence.NewEngine(), events, days)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.server, "server", "http://127.0.0.1:8080/", "base URL of the event server")
	f.StringVarP(&opts.date, "date", "d", "", "day to show as YYYY-MM-DD, today by default")
	f.BoolVarP(&opts.week, "week", "w", false, "show the whole week of the date")
	f.StringVarP(&opts.search, "search", "s", "", "only events containing this text")
	f.StringVarP(&opts.username, "user", "u", "", "basic auth username")
	f.StringVarP(&opts.password, "password", "p", "", "basic auth password")
	return cmd
}

// printAgenda writes one block per day, events sorted by start time.
func printAgenda(w io.Writer, engine view.Recurrence, events []calendar.Event, days []calendar.Date) {
	for _, day := range days {
		holidays := view.Holidays(day.Year(), int(day.Month()))
		header := day.String()
		if name, ok := holidays[day.String()]; ok {
			header += " (" + name + ")"
		}
		fmt.Fprintln(w, header)

		todays := view.OccurrencesOnDay(engine, events, day.String())
		slices.SortStableFunc(todays, func(a, b calendar.Event) int {
			return strings.Compare(a.StartTime, b.StartTime)
		})
		if len(todays) == 0 {
			fmt.Fprintln(w, "  일정 없음")
			continue
		}
		for _, ev := range todays {
			line := fmt.Sprintf("  %s-%s %s", ev.StartTime, ev.EndTime, ev.Title)
			if ev.Location != "" {
				line += " @ " + ev.Location
			}
			fmt.Fprintln(w, line)
		}
	}
}
