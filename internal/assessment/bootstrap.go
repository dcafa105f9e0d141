package assessment

import (
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/Matchmaker/internal/scenario"
	"github.com/MikeSquared-Agency/Matchmaker/internal/traits"
)

// LoadData reads and normalizes the candidate table at path. A table that
// cannot be used is logged and replaced by the placeholder dataset so the
// process keeps serving.
func LoadData(path string, opts traits.LoadOptions, logger *slog.Logger) *traits.Normalized {
	ds, err := traits.LoadFile(path, opts)
	if err != nil {
		logger.Error("failed to load dataset, using placeholder", "path", path, "error", err)
		ds = traits.Placeholder()
	}
	n := traits.Normalize(ds)
	logger.Info("dataset loaded", "candidates", n.Len(), "traits", n.Registry.Len())
	return n
}

// LoadDeck loads the deck at path, or the built-in deck when path is empty,
// and compiles it against reg.
func LoadDeck(path string, reg *traits.Registry, strict bool, logger *slog.Logger) (*scenario.CompiledDeck, error) {
	deck := scenario.Default()
	if path != "" {
		d, err := scenario.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load scenarios: %w", err)
		}
		deck = d
	}

	cd, err := scenario.Compile(deck, reg, strict)
	if err != nil {
		return nil, fmt.Errorf("compile scenarios: %w", err)
	}
	for _, ref := range cd.Unknown() {
		logger.Warn("scenario references unknown trait",
			"scenario", ref.Scenario,
			"side", ref.Side,
			"trait", ref.Trait,
		)
	}
	logger.Info("scenarios loaded", "count", cd.Len(), "unknown_traits", len(cd.Unknown()))
	return cd, nil
}
