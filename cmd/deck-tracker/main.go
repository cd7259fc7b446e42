// Command deck-tracker is a command line frontend for the deck tracker
// core: it lists tracked decks with filtering and sorting, records game
// results, exports decklists, and manages the local database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/magicdecks/tracker/internal/config"
	"github.com/magicdecks/tracker/internal/deck"
	"github.com/magicdecks/tracker/internal/export"
	"github.com/magicdecks/tracker/internal/game"
	"github.com/magicdecks/tracker/internal/stats"
	"github.com/magicdecks/tracker/internal/storage"
	"github.com/magicdecks/tracker/internal/version"
)

type options struct {
	configPath  string
	dbPath      string
	showVersion bool
	reset       bool

	colors     string
	match      string
	brackets   string
	minWinrate float64
	sortKey    string
	desc       bool

	record  string
	oneVOne bool

	exportFormat string
	exportPath   string
	showStats    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to config file (default ~/.deck-tracker/config.toml)")
	flag.StringVar(&opts.dbPath, "db", "", "path to database file (overrides config)")
	flag.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flag.BoolVar(&opts.reset, "reset", false, "drop and re-seed the database, then exit")

	flag.StringVar(&opts.colors, "colors", "", "filter: comma-separated colors (white,blue,black,red,green)")
	flag.StringVar(&opts.match, "match", "including", "color match mode: including or exactly")
	flag.StringVar(&opts.brackets, "brackets", "", "filter: comma-separated bracket levels (1-5)")
	flag.Float64Var(&opts.minWinrate, "min-winrate", -1, "filter: minimum winrate percentage")
	flag.StringVar(&opts.sortKey, "sort", "", "sort key: name, winrate, totalGames, bracketLevel, lastPlayed")
	flag.BoolVar(&opts.desc, "desc", false, "sort descending")

	flag.StringVar(&opts.record, "record", "", "record a game: comma-separated deck IDs, winners marked with '+' (e.g. +3,7,12)")
	flag.BoolVar(&opts.oneVOne, "1v1", false, "record as a 1v1 game instead of multiplayer")

	flag.StringVar(&opts.exportFormat, "export", "", "export matching decks: json, csv, or text")
	flag.StringVar(&opts.exportPath, "out", "", "export output file (default stdout)")
	flag.BoolVar(&opts.showStats, "stats", false, "print collection statistics instead of the deck list")
	flag.Parse()

	if opts.showVersion {
		fmt.Println(version.String())
		return
	}

	if err := run(&opts); err != nil {
		logrus.WithError(err).Fatal("deck-tracker failed")
	}
}

func run(opts *options) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	path := opts.dbPath
	if path == "" {
		if path, err = cfg.DatabasePath(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := storage.Open(databaseConfig(cfg, path))
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	svc := storage.NewService(db)

	if opts.reset {
		if err := svc.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("database reset and re-seeded")
		return nil
	}

	if err := svc.Initialize(ctx); err != nil {
		return err
	}

	registry := deck.NewRegistry(deck.NewStore(db))
	if err := registry.Refresh(ctx); err != nil {
		return err
	}

	if opts.record != "" {
		return recordGame(ctx, registry, opts.record, opts.oneVOne)
	}

	decks, err := queryDecks(registry, opts, cfg)
	if err != nil {
		return err
	}

	switch {
	case opts.showStats:
		printStats(decks)
	case opts.exportFormat != "":
		return export.ExportDecks(decks, export.Format(opts.exportFormat), opts.exportPath)
	default:
		printDecks(decks)
	}
	return nil
}

func databaseConfig(cfg *config.Config, path string) *storage.Config {
	dbCfg := storage.DefaultConfig(path)
	if cfg.Database.BusyTimeoutMS > 0 {
		dbCfg.BusyTimeout = time.Duration(cfg.Database.BusyTimeoutMS) * time.Millisecond
	}
	if cfg.Database.JournalMode != "" {
		dbCfg.JournalMode = cfg.Database.JournalMode
	}
	if cfg.Database.Synchronous != "" {
		dbCfg.Synchronous = cfg.Database.Synchronous
	}
	return dbCfg
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

// queryDecks applies the filter and sort flags to the cached deck list. Sort
// preferences fall back to the config file when no flag is given.
func queryDecks(registry *deck.Registry, opts *options, cfg *config.Config) ([]*deck.Deck, error) {
	filter, err := buildFilter(opts)
	if err != nil {
		return nil, err
	}

	state := deck.DefaultSortState()
	if cfg.List.SortKey != "" {
		state.Key = deck.SortKey(cfg.List.SortKey)
	}
	if cfg.List.SortDirection == "desc" {
		state.Direction = deck.SortDesc
	}
	if opts.sortKey != "" {
		state = deck.SortState{Key: deck.SortKey(opts.sortKey), Direction: deck.SortAsc}
	}
	if opts.desc {
		state.Direction = deck.SortDesc
	}

	return deck.Query(registry.Decks(), filter, state), nil
}

func buildFilter(opts *options) (*deck.FilterOptions, error) {
	f := &deck.FilterOptions{}

	if opts.colors != "" {
		for _, c := range strings.Split(opts.colors, ",") {
			f.Colors = append(f.Colors, deck.Color(strings.TrimSpace(strings.ToLower(c))))
		}
	}
	switch opts.match {
	case "", "including":
		f.ColorMatchMode = deck.MatchIncluding
	case "exactly":
		f.ColorMatchMode = deck.MatchExactly
	default:
		return nil, fmt.Errorf("invalid match mode %q", opts.match)
	}

	if opts.brackets != "" {
		for _, b := range strings.Split(opts.brackets, ",") {
			level, err := strconv.Atoi(strings.TrimSpace(b))
			if err != nil {
				return nil, fmt.Errorf("invalid bracket level %q", b)
			}
			f.BracketLevels = append(f.BracketLevels, level)
		}
	}

	if opts.minWinrate >= 0 {
		min := opts.minWinrate
		f.MinWinrate = &min
	}
	return f, nil
}

func printDecks(decks []*deck.Deck) {
	if len(decks) == 0 {
		fmt.Println("no decks match")
		return
	}
	for _, d := range decks {
		printDeck(d)
	}
}

func printDeck(d *deck.Deck) {
	bracket := "-"
	if d.BracketLevel != nil {
		bracket = strconv.Itoa(*d.BracketLevel)
	}
	lastPlayed := "never"
	if d.LastPlayed != nil {
		lastPlayed = d.LastPlayed.Format("2006-01-02")
	}
	colorNames := make([]string, len(d.Colors))
	for i, c := range d.Colors {
		colorNames[i] = string(c)
	}

	fmt.Printf("#%-4d %-24s [%s]\n", d.ID, d.Name, strings.Join(colorNames, ","))
	if d.CommanderName != "" {
		fmt.Printf("      commander: %s\n", d.CommanderName)
	}
	fmt.Printf("      bracket %s | %.0f%% over %d games (%s) | last played %s\n",
		bracket, d.Winrate, d.TotalGames, d.Record(), lastPlayed)
}

func printStats(decks []*deck.Deck) {
	s := stats.Summarize(decks)
	fmt.Printf("decks:          %d\n", s.DeckCount)
	fmt.Printf("record:         %s\n", s.FormatRecord())
	fmt.Printf("overall winrate: %.0f%%\n", s.OverallWinrate)
	if s.MostPlayed != nil {
		fmt.Printf("most played:    %s (%d games)\n", s.MostPlayed.Name, s.MostPlayed.TotalGames)
	}
	if s.BestWinrate != nil {
		fmt.Printf("best winrate:   %s (%.0f%%)\n", s.BestWinrate.Name, s.BestWinrate.Winrate)
	}
}

// recordGame parses the -record argument: comma-separated deck IDs with
// winners prefixed by '+'.
func recordGame(ctx context.Context, registry *deck.Registry, arg string, oneVOne bool) error {
	result := &game.Result{
		Mode:     game.ModeMultiplayer,
		PlayedAt: time.Now().UTC(),
	}
	if oneVOne {
		result.Mode = game.Mode1v1
	}

	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		won := strings.HasPrefix(part, "+")
		id, err := strconv.ParseInt(strings.TrimPrefix(part, "+"), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid deck id %q", part)
		}
		result.Participants = append(result.Participants, game.Participant{DeckID: id, Won: won})
	}

	recorder := game.NewRecorder(registry)
	report, err := recorder.Record(ctx, result)
	if err != nil {
		return err
	}

	fmt.Printf("game %s recorded for %d decks\n", report.GameID, len(report.Decks))
	return nil
}
