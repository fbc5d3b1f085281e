// Command budgetwatch follows one trip's budget from the command line. It
// keeps a live copy of the ledger and prints the summary whenever it
// changes.
//
//	BUDGET_API_URL=http://localhost:8080 BUDGET_API_TOKEN=... budgetwatch -trip <id>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"GO2GETHER_BUDGET/internal/client"
	"GO2GETHER_BUDGET/internal/logging"
	"GO2GETHER_BUDGET/internal/realtime"
	"GO2GETHER_BUDGET/internal/utils"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("budgetwatch: %v", err)
	}
}

func run() error {
	_ = godotenv.Load(".env")

	tripFlag := flag.String("trip", "", "trip id to watch")
	userFlag := flag.String("user", "", "your user id, used for provisional entries")
	poll := flag.Duration("poll", 30*time.Second, "refresh interval in addition to change events (0 disables)")
	flag.Parse()

	tripID, err := uuid.Parse(*tripFlag)
	if err != nil {
		return fmt.Errorf("invalid -trip: %w", err)
	}
	var userID uuid.UUID
	if *userFlag != "" {
		if userID, err = uuid.Parse(*userFlag); err != nil {
			return fmt.Errorf("invalid -user: %w", err)
		}
	}

	apiURL := os.Getenv("BUDGET_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed, closeFeed, err := openFeed(ctx, logger)
	if err != nil {
		return err
	}
	defer closeFeed()
	if feed == nil && *poll <= 0 {
		return errors.New("no change feed configured; set FEED_DRIVER or a -poll interval")
	}

	api := client.NewHTTPClient(apiURL, os.Getenv("BUDGET_API_TOKEN"), nil)
	view, err := client.OpenTripView(ctx, api, feed, tripID, userID, client.ViewOptions{
		DefaultCurrency: os.Getenv("LEDGER_DEFAULT_CURRENCY"),
		PollInterval:    *poll,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("open trip %s: %w", tripID, err)
	}
	defer view.Close()

	var printed uint64
	for {
		snap := view.Snapshot()
		if snap.Version != printed {
			printSnapshot(os.Stdout, snap)
			printed = snap.Version
		}
		select {
		case <-ctx.Done():
			return nil
		case <-view.Changes():
		}
	}
}

// openFeed connects to the change feed named by FEED_DRIVER. A nil feed
// means polling only.
func openFeed(ctx context.Context, logger logging.Logger) (realtime.Subscriber, func(), error) {
	switch strings.ToLower(os.Getenv("FEED_DRIVER")) {
	case "redis":
		f, err := realtime.NewRedisFeed(ctx, os.Getenv("REDIS_URL"), logger)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		return realtime.NewPostgresFeed(pool, logger), pool.Close, nil
	case "":
		return nil, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported FEED_DRIVER %q", os.Getenv("FEED_DRIVER"))
	}
}

func printSnapshot(w io.Writer, snap client.Snapshot) {
	s := snap.Summary
	fmt.Fprintf(w, "total %s %s | paid %s | unpaid %s | %d members, %s each\n",
		s.Total.StringFixed(2), s.Currency, s.Paid.StringFixed(2), s.Unpaid.StringFixed(2),
		s.MemberCount, s.PerPerson.StringFixed(2))
	for _, it := range snap.Items {
		mark := " "
		if it.IsPaid {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %-30s %10s %s  %s\n",
			mark, it.Title, it.Amount.StringFixed(2), it.Currency, utils.FormatTimestamp(it.CreatedAt))
	}
}
