package model

import "github.com/shopspring/decimal"

// Names of the tariff rows the checkout fee calculation depends on. The
// description column doubles as the lookup key, so these strings must match
// the seeded reference data exactly.
const (
	TariffHalfHour = "MEDIA HORA" // flat fee for stays up to 30 minutes
	TariffOneHour  = "UNA HORA"   // flat fee for stays up to 60 minutes
	TariffHourly   = "VALOR HORA" // per-hour rate for longer stays
)

// Tariff mirrors a row of the `tariffs` table. Tariffs are reference data:
// operators seed them once and the API only reads them.
type Tariff struct {
	ID          uint64          // tariffs.id
	Description string          // tariffs.description (unique lookup key)
	Value       decimal.Decimal // tariffs.value
}
