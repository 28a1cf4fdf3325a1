package clearance

import "github.com/openfairdb/ofdb-core/internal/platform/pg"

type execQueryer = pg.Queryer
