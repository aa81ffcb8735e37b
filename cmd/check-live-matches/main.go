package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vrsandeep/chesscom-helper/internal/core"
	"github.com/vrsandeep/chesscom-helper/internal/livecheck"
	"github.com/vrsandeep/chesscom-helper/internal/reporting"
)

func main() {
	verbose := flag.Bool("verbose", false, "Enable verbose logging and list every error")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	app, err := core.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Command failed: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if _, err := reporting.Init(app.Config().Sentry.DSN, "check-live-matches", app.Version); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer reporting.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app, *verbose, os.Stdout); err != nil {
		reporting.CaptureError(err, map[string]any{"command": "check-live-matches"})
		reporting.Flush()
		fmt.Fprintf(os.Stderr, "Command failed: %v\n", err)
		os.Exit(1)
	}
}

// run performs one live match check and prints the summary. Errors recorded
// for individual players do not fail the command.
func run(ctx context.Context, app *core.App, verbose bool, out io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("live match check panicked: %v", r)
		}
	}()

	fmt.Fprintln(out, "Starting live match check...")
	report := livecheck.NewService(app).RunCheckAndNotify(ctx)

	fmt.Fprintln(out, "Check completed:")
	fmt.Fprintf(out, "- Users checked: %d\n", report.TotalUsersChecked)
	fmt.Fprintf(out, "- Notifications sent: %d\n", report.NotificationsSent)
	fmt.Fprintf(out, "- Errors: %d\n", len(report.Errors))

	if len(report.Errors) > 0 && verbose {
		fmt.Fprintln(out, "Errors encountered:")
		for _, e := range report.Errors {
			fmt.Fprintf(out, "- %s\n", e.Error)
		}
	}
	return nil
}
