package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"worklog/internal/backend"
	"worklog/internal/cli"
	"worklog/internal/core"
	applog "worklog/internal/log"
	"worklog/internal/store"
)

const usage = `Usage: worklog [-backend durable|ephemeral] <command> [flags]

Commands:
  list    List records, optionally filtered
  add     Create a record
  rm      Delete a record by id
  stats   Per-person overtime/leave totals
  facets  Distinct years and months with records

Run 'worklog <command> -h' for command flags.
`

func main() {
	backendFlag := flag.String("backend", "", "record backend (durable or ephemeral), overrides DATA_BACKEND")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentStore)
	cfg := cli.LoadAndValidateConfig(logger)

	mode := backend.Type(cfg.DataBackend)
	if *backendFlag != "" {
		mode = backend.Type(*backendFlag)
	}

	ctx := context.Background()
	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)

	durable, err := factory.CreateBackend(ctx, backend.Config{
		Type:       backend.Durable,
		APIBaseURL: cfg.APIBaseURL,
	})
	if err != nil {
		fatal(err)
	}
	ephemeral, err := factory.CreateBackend(ctx, backend.Config{
		Type:     backend.Ephemeral,
		DataFile: cfg.DataFile,
	})
	if err != nil {
		fatal(err)
	}

	st, err := store.New(mode, durable.Backend, ephemeral.Backend)
	if err != nil {
		fatal(err)
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "list":
		err = runList(ctx, st, args)
	case "add":
		err = runAdd(ctx, st, args)
	case "rm":
		err = runRemove(ctx, st, args)
	case "stats":
		err = runStats(ctx, st, args)
	case "facets":
		err = runFacets(ctx, st, args)
	default:
		fmt.Fprintf(os.Stderr, "worklog: unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "worklog:", err)
	os.Exit(1)
}

func filterFlags(fs *flag.FlagSet) *core.Filter {
	f := &core.Filter{}
	fs.StringVar(&f.Date, "date", "", "exact date (YYYY-MM-DD)")
	fs.StringVar((*string)(&f.Type), "type", "", "event type (overtime or leave)")
	fs.StringVar(&f.Year, "year", "", "year (YYYY)")
	fs.StringVar(&f.Month, "month", "", "month (YYYY-MM)")
	fs.StringVar(&f.Name, "name", "", "name substring, case-insensitive")
	return f
}

func runList(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	f := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := st.ListRecords(ctx)
	if err != nil {
		return err
	}
	list = core.FilterRecords(list, *f)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tDURATION\tNAMES")
	for _, r := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.Date, r.Type, r.Duration, strings.Join(r.Names, " "))
	}
	return w.Flush()
}

func runAdd(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	names := fs.String("names", "", "whitespace-separated list of names (required)")
	date := fs.String("date", "", "record date, YYYY-MM-DD (required)")
	eventType := fs.String("type", "", "overtime or leave (required)")
	duration := fs.String("duration", string(core.Full), "full, morning or afternoon")
	if err := fs.Parse(args); err != nil {
		return err
	}

	parsedDate, err := core.ParseDate(*date)
	if err != nil {
		return err
	}

	draft := core.Draft{
		Names:    core.ParseNames(*names),
		Date:     parsedDate,
		Type:     core.EventType(*eventType),
		Duration: core.Duration(*duration),
	}
	created, err := st.CreateRecord(ctx, draft)
	if err != nil {
		return err
	}

	fmt.Printf("created record %d on %s backend\n", created.ID, st.Mode())
	return nil
}

func runRemove(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("rm: expected exactly one record id")
	}

	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("rm: invalid record id %q", fs.Arg(0))
	}

	if err := st.DeleteRecord(ctx, id); err != nil {
		return err
	}
	fmt.Printf("deleted record %d\n", id)
	return nil
}

func runStats(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	f := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := st.ListRecords(ctx)
	if err != nil {
		return err
	}
	stats := core.Summarize(list, *f)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tOVERTIME\tOT DAYS\tLEAVE\tLEAVE DAYS")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%d\t%.1f\n",
			s.Name, s.OvertimeCount, s.OvertimeDays, s.LeaveCount, s.LeaveDays)
	}
	return w.Flush()
}

func runFacets(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("facets", flag.ExitOnError)
	year := fs.String("year", "", "restrict months to one year (YYYY)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := st.ListRecords(ctx)
	if err != nil {
		return err
	}

	fmt.Println("years: ", strings.Join(core.Years(list), " "))
	fmt.Println("months:", strings.Join(core.Months(list, *year), " "))
	return nil
}
