// Command bingocards はアイコンのマニフェストからビンゴカードの PDF を生成します。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/bingo-card-kit/pkg/adapters"
	"github.com/shouni/bingo-card-kit/pkg/config"
	"github.com/shouni/bingo-card-kit/pkg/domain"
	"github.com/shouni/bingo-card-kit/pkg/generator"
	"github.com/shouni/bingo-card-kit/pkg/layout"
)

type flags struct {
	manifest     string
	out          string
	grid         int
	sets         int
	cards        int
	centerBlank  bool
	multiHit     bool
	difficulty   string
	distribution string
	sameCard     bool
	layoutMode   string
	portrait     bool
	labels       bool
	seed         int64
	seedSet      bool
	title        string
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.manifest, "manifest", "icons.json", "icon manifest (JSON array)")
	flag.StringVar(&f.out, "out", "bingo.pdf", "output PDF path")
	flag.IntVar(&f.grid, "grid", 5, "grid size (cells per side)")
	flag.IntVar(&f.sets, "sets", 1, "number of sets")
	flag.IntVar(&f.cards, "cards", 1, "cards per set")
	flag.BoolVar(&f.centerBlank, "center-blank", true, "make the center cell a free space (odd grids only)")
	flag.BoolVar(&f.multiHit, "multi-hit", false, "enable multi-hit targets")
	flag.StringVar(&f.difficulty, "difficulty", "standard", "standard|easy|medium|hard")
	flag.StringVar(&f.distribution, "distribution", "same", "same|different")
	flag.BoolVar(&f.sameCard, "same-card", false, "every card in a set is identical")
	flag.StringVar(&f.layoutMode, "layout", "one", "one|two cards per page")
	flag.BoolVar(&f.portrait, "portrait", false, "stack two cards vertically on a portrait page")
	flag.BoolVar(&f.labels, "labels", false, "print icon names under the images")
	flag.Int64Var(&f.seed, "seed", 0, "random seed (random when omitted)")
	flag.StringVar(&f.title, "title", "", "card title")
	flag.Parse()
	flag.Visit(func(fl *flag.Flag) {
		if fl.Name == "seed" {
			f.seedSet = true
		}
	})
	return f
}

func main() {
	f := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		exitf("failed to load config: %v", err)
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, f, cfg, logger); err != nil {
		var insufficient *domain.InsufficientIconsError
		switch {
		case errors.As(err, &insufficient):
			exitf("not enough icons: this configuration needs %d, the manifest has %d", insufficient.Required, insufficient.Available)
		case errors.Is(err, domain.ErrInvalidRequest):
			exitf("invalid request: %v", err)
		default:
			exitf("bingocards: %v", err)
		}
	}
}

func run(ctx context.Context, f flags, cfg config.Config, logger *slog.Logger) error {
	pool, err := loadManifest(f.manifest)
	if err != nil {
		return err
	}
	req, err := buildRequest(f, cfg)
	if err != nil {
		return err
	}
	opts, err := buildLayoutOptions(f, cfg)
	if err != nil {
		return err
	}

	cache := gocache.New(cfg.ImageCacheTTL, 2*cfg.ImageCacheTTL)
	source := adapters.NewImageSource(
		httpkit.New(cfg.FetchTimeout),
		localReader{},
		cache,
		cfg.ImageCacheTTL,
		adapters.WithSourceLogger(logger),
	)
	renderer := adapters.NewPDFRenderer(source, logger)

	session, err := generator.NewGenerator(cfg.GeneratorOptions(logger)...).Generate(ctx, pool, req)
	if err != nil {
		return fmt.Errorf("generate cards: %w", err)
	}

	engine := layout.NewEngine(source,
		layout.WithTextMeasurer(renderer),
		layout.WithLookupTimeout(cfg.ImageLookupTimeout),
		layout.WithLogger(logger),
	)
	pages, err := engine.Paginate(ctx, session.Cards, opts)
	if err != nil {
		return fmt.Errorf("layout pages: %w", err)
	}

	out, err := os.Create(f.out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := renderer.Render(ctx, req.ResolvedTitle(), pages, out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	printSummary(session, pages, f.out)
	return nil
}

func buildRequest(f flags, cfg config.Config) (domain.GenerationRequest, error) {
	dist, err := domain.ParseDistribution(f.distribution)
	if err != nil {
		return domain.GenerationRequest{}, err
	}
	diff, err := domain.ParseDifficulty(f.difficulty)
	if err != nil {
		return domain.GenerationRequest{}, err
	}
	title := f.title
	if title == "" {
		title = cfg.Title
	}
	req := domain.GenerationRequest{
		GridSize:          f.grid,
		SetCount:          f.sets,
		CardsPerSet:       f.cards,
		CenterBlank:       f.centerBlank,
		MultiHitMode:      f.multiHit,
		Distribution:      dist,
		SameCardAcrossSet: f.sameCard,
		Difficulty:        diff,
		Title:             title,
	}
	if f.seedSet {
		seed := f.seed
		req.Seed = &seed
	}
	return req, nil
}

func buildLayoutOptions(f flags, cfg config.Config) (layout.Options, error) {
	opts := cfg.LayoutOptions()
	opts.ShowLabels = f.labels
	switch f.layoutMode {
	case "one", "one-per-page":
		opts.Mode = domain.OnePerPage
	case "two", "two-per-page":
		opts.Mode = domain.TwoPerPage
	default:
		return layout.Options{}, &domain.ValidationError{Field: "layout", Reason: fmt.Sprintf("unknown layout %q", f.layoutMode)}
	}
	if f.portrait {
		opts.Orientation = layout.Portrait
	}
	return opts, nil
}

func printSummary(s *generator.Session, pages []domain.PageLayout, path string) {
	fmt.Printf("seed: %d\n", s.Seed)
	for _, set := range s.Sets {
		fmt.Printf("set %d: %s (%d cards)\n", set.SetIndex+1, set.Identifier, len(s.CardsForSet(set.SetIndex)))
	}
	for _, w := range s.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	fmt.Printf("wrote %d pages to %s\n", len(pages), path)
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
