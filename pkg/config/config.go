// Package config はビンゴカード生成の設定を環境変数から読み込みます。
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/shouni/bingo-card-kit/pkg/generator"
	"github.com/shouni/bingo-card-kit/pkg/layout"
)

// Config は CLI やサービスが共有する設定です。
type Config struct {
	LogLevel            string        `env:"BINGO_LOG_LEVEL" envDefault:"info"`
	FetchTimeout        time.Duration `env:"BINGO_FETCH_TIMEOUT" envDefault:"15s"`
	ImageLookupTimeout  time.Duration `env:"BINGO_IMAGE_LOOKUP_TIMEOUT" envDefault:"5s"`
	ImageCacheTTL       time.Duration `env:"BINGO_IMAGE_CACHE_TTL" envDefault:"30m"`
	MultiHitProbability float64       `env:"BINGO_MULTI_HIT_PROBABILITY" envDefault:"0.3"`
	RetryCap            int           `env:"BINGO_RETRY_CAP" envDefault:"50"`
	PageSize            string        `env:"BINGO_PAGE_SIZE" envDefault:"letter"`
	Margin              float64       `env:"BINGO_MARGIN" envDefault:"36"`
	Title               string        `env:"BINGO_TITLE"`
}

// Load は環境変数から設定を読み込み、値の範囲を検証します。
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate は設定値の範囲を検査します。
func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.MultiHitProbability < 0 || c.MultiHitProbability > 1 {
		return fmt.Errorf("invalid BINGO_MULTI_HIT_PROBABILITY %v: must be within [0, 1]", c.MultiHitProbability)
	}
	if c.RetryCap < 1 {
		return fmt.Errorf("invalid BINGO_RETRY_CAP %d: must be >= 1", c.RetryCap)
	}
	if c.ImageLookupTimeout <= 0 {
		return fmt.Errorf("invalid BINGO_IMAGE_LOOKUP_TIMEOUT %v: must be positive", c.ImageLookupTimeout)
	}
	if c.Margin < 0 {
		return fmt.Errorf("invalid BINGO_MARGIN %v: must not be negative", c.Margin)
	}
	if _, err := layout.ParsePageSize(c.PageSize); err != nil {
		return fmt.Errorf("invalid BINGO_PAGE_SIZE: %w", err)
	}
	return nil
}

// SlogLevel は LogLevel を slog.Level に変換します。
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid BINGO_LOG_LEVEL %q", c.LogLevel)
	}
}

// GeneratorOptions は設定を generator.Option に変換します。
func (c Config) GeneratorOptions(logger *slog.Logger) []generator.Option {
	return []generator.Option{
		generator.WithRetryCap(c.RetryCap),
		generator.WithMultiHitProbability(c.MultiHitProbability),
		generator.WithLogger(logger),
	}
}

// LayoutOptions は設定の用紙サイズと余白を反映した layout.Options を返します。
func (c Config) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	if size, err := layout.ParsePageSize(c.PageSize); err == nil {
		opts.PageSize = size
	}
	opts.Margin = c.Margin
	return opts
}
