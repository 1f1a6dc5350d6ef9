package main

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"bostoninfo/database"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Database Manager - CLI utility for the address lookup log")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: db-manager <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list   [--db=path] [--outcome=o] [--limit=n]  List recent lookups")
	fmt.Fprintln(w, "  stats  [--db=path]                            Print lookup statistics as JSON")
	fmt.Fprintln(w, "  export [--db=path] [--output=file.xlsx]       Export lookups to Excel")
	fmt.Fprintln(w, "  backup [--db=path] [--output=backup.zip]      Zip the database file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  db-manager list --outcome=ambiguous --limit=20")
	fmt.Fprintln(w, "  db-manager export --output=lookups.xlsx")
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dbPath := fs.String("db", defaultDBPath(), "Path to the lookup database")
	outcome := fs.String("outcome", "", "Filter by outcome")
	limit := fs.Int("limit", 50, "Maximum number of lookups")
	output := fs.String("output", "", "Output file")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if args[0] == "backup" {
		return handleBackup(*dbPath, *output, stdout)
	}

	switch args[0] {
	case "list", "stats", "export":
	default:
		return fmt.Errorf("%w: unknown command %s", errUsage, args[0])
	}

	if _, err := os.Stat(*dbPath); err != nil {
		return fmt.Errorf("lookup database %s: %w", *dbPath, err)
	}
	db, err := database.NewLookupDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	filter := database.LookupFilter{Outcome: *outcome, Limit: *limit}

	switch args[0] {
	case "list":
		return handleList(ctx, db, filter, stdout)
	case "stats":
		return handleStats(ctx, db, stdout)
	default:
		return handleExport(ctx, db, filter, *output, stdout)
	}
}

func defaultDBPath() string {
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		return path
	}
	return "lookups.db"
}

func handleList(ctx context.Context, db *database.LookupDB, filter database.LookupFilter, stdout io.Writer) error {
	records, err := db.ListLookups(ctx, filter)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tSOURCE\tOUTCOME\tQUERY\tADDRESSES")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Source, r.Outcome, r.Query, strings.Join(r.Addresses, "; "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nTotal: %d\n", len(records))
	return nil
}

func handleStats(ctx context.Context, db *database.LookupDB, stdout io.Writer) error {
	stats, err := db.GetLookupStats(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func handleExport(ctx context.Context, db *database.LookupDB, filter database.LookupFilter, output string, stdout io.Writer) error {
	if output == "" {
		output = fmt.Sprintf("address_lookups_%s.xlsx", time.Now().Format("20060102_150405"))
	}
	// Без явного --limit выгружается весь журнал
	if filter.Limit == 50 {
		filter.Limit = 0
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	count, err := db.ExportLookupsToExcel(ctx, file, filter)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Exported %d lookups to %s\n", count, output)
	return file.Close()
}

func handleBackup(dbPath, output string, stdout io.Writer) error {
	if output == "" {
		output = fmt.Sprintf("backup_%s.zip", time.Now().Format("20060102_150405"))
	}
	if !strings.HasSuffix(output, ".zip") {
		output += ".zip"
	}

	src, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	zipFile, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	entry, err := zipWriter.Create(filepath.Base(dbPath))
	if err != nil {
		return fmt.Errorf("failed to add database to archive: %w", err)
	}
	written, err := io.Copy(entry, src)
	if err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}

	fmt.Fprintf(stdout, "Backup created: %s (%d bytes)\n", output, written)
	return zipFile.Close()
}
