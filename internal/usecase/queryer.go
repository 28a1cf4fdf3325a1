package usecase

import "github.com/openfairdb/ofdb-core/internal/platform/pg"

// execQueryer is the connection-mode-agnostic surface every use-case
// method accepts; the caller decides shared vs. exclusive by which
// pg.Queryer it passes (spec.md §4.1).
type execQueryer = pg.Queryer
