package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mentordex/internal/app"
	"github.com/kailas-cloud/mentordex/internal/config"
	"github.com/kailas-cloud/mentordex/internal/db/sqlite"
	dommentor "github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/request"
	domsuggest "github.com/kailas-cloud/mentordex/internal/domain/suggest"
	logpkg "github.com/kailas-cloud/mentordex/internal/logger"
	chiTransport "github.com/kailas-cloud/mentordex/internal/transport/chi"
	"github.com/kailas-cloud/mentordex/internal/version"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "mentordexctl",
		Usage:   "Administer the mentordex directory and search index",
		Version: version.Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Config environment (config/<env>.yaml)",
				EnvVars: []string{"ENV"},
				Value:   "local",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply pending directory schema migrations",
				Action: migrateCommand,
			},
			{
				Name:   "import",
				Usage:  "Import mentors, users and sessions from a YAML file",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the YAML import file",
						Required: true,
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the advanced search index from the directory",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "recreate",
						Usage: "Drop the index definition first, e.g. after a schema change",
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Run a mentor search and print the result page as JSON",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q", Usage: "Free-text query"},
					&cli.StringSliceFlag{Name: "expertise", Usage: "Expertise area filter (repeatable)"},
					&cli.StringSliceFlag{Name: "skill", Usage: "Skill filter (repeatable)"},
					&cli.StringSliceFlag{Name: "help-area", Usage: "Help area filter (repeatable)"},
					&cli.Float64Flag{Name: "min-experience", Usage: "Minimum years of experience"},
					&cli.Float64Flag{Name: "max-rate", Usage: "Maximum hourly rate"},
					&cli.IntFlag{Name: "page", Usage: "Page number", Value: request.DefaultPage},
					&cli.IntFlag{Name: "limit", Usage: "Page size", Value: request.DefaultLimit},
				},
			},
			{
				Name:   "suggest",
				Usage:  "Print autocomplete suggestions as JSON",
				Action: suggestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q", Usage: "Prefix to complete", Required: true},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Suggestion type: mentorName, skill or expertiseArea",
						Value: string(domsuggest.KindMentorName),
					},
				},
			},
			{
				Name:   "analytics",
				Usage:  "Print the directory facet summary as JSON",
				Action: analyticsCommand,
			},
		},
	}
}

// openApp loads config for the selected environment and wires the use cases.
func openApp(c *cli.Context) (*app.App, error) {
	env := c.String("env")
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger(env, c.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	a, err := app.New(c.Context, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initialise: %w", err)
	}
	return a, nil
}

func migrateCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("env"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := sqlite.Open(cfg.Directory.DSN)
	if err != nil {
		return fmt.Errorf("open directory: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := sqlite.Migrate(c.Context, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	_, _ = fmt.Fprintf(c.App.Writer, "directory %s migrated\n", cfg.Directory.DSN)
	return nil
}

type importSummary struct {
	Mentors  int      `json:"mentors"`
	Rejected []string `json:"rejected"`
	Users    int      `json:"users"`
	Sessions int      `json:"sessions"`
}

func importCommand(c *cli.Context) error {
	f, err := readImportFile(c.String("file"))
	if err != nil {
		return err
	}

	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := c.Context
	records := make([]dommentor.Attrs, len(f.Mentors))
	for i := range f.Mentors {
		records[i] = f.Mentors[i].attrs()
	}
	report, err := a.Mentors.Import(ctx, records)
	if err != nil {
		return fmt.Errorf("import mentors: %w", err)
	}

	summary := importSummary{Mentors: report.Imported, Rejected: []string{}}
	for _, r := range report.Rejected {
		summary.Rejected = append(summary.Rejected, fmt.Sprintf("#%d %s: %s", r.Index, r.ID, r.Reason))
	}

	now := time.Now()
	for i := range f.Users {
		u, err := f.Users[i].user(now)
		if err != nil {
			return err
		}
		if err := a.Directory.UpsertUser(ctx, &u); err != nil {
			return fmt.Errorf("import user %s: %w", u.ID, err)
		}
		summary.Users++
	}
	for i := range f.Sessions {
		s, err := f.Sessions[i].session(now)
		if err != nil {
			return err
		}
		if err := a.Directory.UpsertSession(ctx, &s); err != nil {
			return fmt.Errorf("import session %s: %w", s.ID, err)
		}
		summary.Sessions++
	}

	return printJSON(c.App.Writer, summary)
}

func reindexCommand(c *cli.Context) error {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Indexer == nil {
		return errors.New("no search index configured (search_index.driver is none)")
	}
	run := a.Indexer.Run
	if c.Bool("recreate") {
		run = a.Indexer.Rebuild
	}
	report, err := run(c.Context)
	if err != nil {
		return fmt.Errorf("reindex: %w", err)
	}
	a.Logger.Info("Reindex finished", zap.Duration("duration", report.Duration))
	return printJSON(c.App.Writer, map[string]any{
		"recreated":    report.Recreated,
		"indexCreated": report.IndexCreated,
		"scanned":      report.Scanned,
		"indexed":      report.Indexed,
		"removed":      report.Removed,
		"durationMs":   report.Duration.Milliseconds(),
	})
}

func searchCommand(c *cli.Context) error {
	params := request.Params{
		Query:          c.String("q"),
		ExpertiseAreas: c.StringSlice("expertise"),
		Skills:         c.StringSlice("skill"),
		HelpAreas:      c.StringSlice("help-area"),
		Page:           c.Int("page"),
		Limit:          c.Int("limit"),
	}
	if c.IsSet("min-experience") {
		v := c.Float64("min-experience")
		params.MinExperience = &v
	}
	if c.IsSet("max-rate") {
		v := c.Float64("max-rate")
		params.MaxHourlyRate = &v
	}
	req, err := request.New(params)
	if err != nil {
		return err
	}

	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.Search.Search(c.Context, &req)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return printJSON(c.App.Writer, chiTransport.NewMentorSearchResponse(&page))
}

func suggestCommand(c *cli.Context) error {
	kind, err := domsuggest.ParseKind(c.String("type"))
	if err != nil {
		return err
	}

	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := a.Suggest.Suggest(c.Context, c.String("q"), kind)
	if err != nil {
		return fmt.Errorf("suggest: %w", err)
	}
	return printJSON(c.App.Writer, chiTransport.NewSuggestionsResponse(items))
}

func analyticsCommand(c *cli.Context) error {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.Analytics.Snapshot(c.Context)
	if err != nil {
		return fmt.Errorf("analytics: %w", err)
	}
	return printJSON(c.App.Writer, chiTransport.NewAnalyticsResponse(&snap))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
