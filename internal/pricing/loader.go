package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Loader defines the interface for loading discount tier schedules.
type Loader interface {
	// Load reads a JSON tier file and returns the validated schedule.
	Load(ctx context.Context, path string) ([]Tier, error)
}

// fileLoader implements Loader for reading tier files from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based tier loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "tier-loader").Logger(),
	}
}

// Load reads a JSON tier file from the local file system. The file is
// expected to contain an array of {moreThanDays, percent} objects.
func (l *fileLoader) Load(ctx context.Context, path string) ([]Tier, error) {
	l.logger.Info().Str("file", path).Msg("loading discount tier file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open tier file")
		return nil, fmt.Errorf("failed to open tier file %s: %w", path, err)
	}
	defer file.Close()

	var tiers []Tier
	if err := json.NewDecoder(file).Decode(&tiers); err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode tier file")
		return nil, fmt.Errorf("failed to decode tier file %s: %w", path, err)
	}

	if err := ValidateTiers(tiers); err != nil {
		return nil, fmt.Errorf("invalid tier file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("tiers_loaded", len(tiers)).
		Msg("discount tier file loaded successfully")

	return tiers, nil
}

// ValidateTiers rejects schedules that could produce nonsense discounts.
func ValidateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("tier schedule is empty")
	}

	seen := make(map[int]bool, len(tiers))
	for i, t := range tiers {
		if t.MoreThanDays < 0 {
			return fmt.Errorf("tier %d: day bound must not be negative", i)
		}
		if t.Percent < 0 || t.Percent > 100 {
			return fmt.Errorf("tier %d: percent must be between 0 and 100", i)
		}
		if seen[t.MoreThanDays] {
			return fmt.Errorf("tier %d: duplicate day bound %d", i, t.MoreThanDays)
		}
		seen[t.MoreThanDays] = true
	}

	return nil
}
