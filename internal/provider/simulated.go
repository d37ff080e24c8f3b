package provider

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
)

// SimEntry is one fixed quote template in a simulated table.
type SimEntry struct {
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent string
	Volume        int64
}

// simulatedStocks holds the documented B3 fallback values.
var simulatedStocks = map[string]SimEntry{
	"PETR4.SA": {Price: dec("35.50"), Change: dec("0.25"), ChangePercent: "0.71%", Volume: 1000000},
	"VALE3.SA": {Price: dec("68.20"), Change: dec("-0.80"), ChangePercent: "-1.16%", Volume: 1000000},
	"ITUB4.SA": {Price: dec("32.15"), Change: dec("0.15"), ChangePercent: "0.47%", Volume: 1000000},
	"BBDC4.SA": {Price: dec("18.90"), Change: dec("-0.10"), ChangePercent: "-0.53%", Volume: 1000000},
	"ABEV3.SA": {Price: dec("12.45"), Change: dec("0.05"), ChangePercent: "0.40%", Volume: 1000000},
	"^BVSP":    {Price: dec("125000"), Change: dec("500"), ChangePercent: "0.40%", Volume: 1000000},
}

// defaultStockEntry answers unknown stock symbols.
var defaultStockEntry = SimEntry{Price: dec("50.0"), ChangePercent: "0.00%", Volume: 1000000}

// simulatedCommodities holds the documented commodity fallback values.
var simulatedCommodities = map[string]SimEntry{
	"GC=F": {Price: dec("2350.0"), ChangePercent: "0.00%"},
	"SI=F": {Price: dec("28.50"), ChangePercent: "0.00%"},
	"CL=F": {Price: dec("82.30"), ChangePercent: "0.00%"},
}

// defaultCommodityEntry answers unknown commodity symbols.
var defaultCommodityEntry = SimEntry{Price: dec("50.0"), ChangePercent: "0.00%"}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SimulatedTable is the deterministic terminal provider for a stock or
// commodity chain. Known symbols map to fixed documented quotes; unknown
// symbols map to the table's declared default, so Fetch never reports
// absence. The table is built once and read-only afterwards.
type SimulatedTable struct {
	category model.Category
	priority int
	entries  map[string]SimEntry
	fallback SimEntry
}

// NewSimulatedTable creates a simulated provider over an explicit table.
// The entries map is copied, keeping the provider immutable even if the
// caller reuses the map.
func NewSimulatedTable(category model.Category, priority int, entries map[string]SimEntry, fallback SimEntry) *SimulatedTable {
	copied := make(map[string]SimEntry, len(entries))
	for symbol, entry := range entries {
		copied[symbol] = entry
	}

	return &SimulatedTable{
		category: category,
		priority: priority,
		entries:  copied,
		fallback: fallback,
	}
}

// NewSimulatedStocks creates the documented stock fallback table.
func NewSimulatedStocks(priority int) *SimulatedTable {
	return NewSimulatedTable(model.CategoryStock, priority, simulatedStocks, defaultStockEntry)
}

// NewSimulatedCommodities creates the documented commodity fallback table.
func NewSimulatedCommodities(priority int) *SimulatedTable {
	return NewSimulatedTable(model.CategoryCommodity, priority, simulatedCommodities, defaultCommodityEntry)
}

var _ Provider = (*SimulatedTable)(nil)

func (s *SimulatedTable) Name() string { return "simulated" }

func (s *SimulatedTable) Category() model.Category { return s.category }

func (s *SimulatedTable) Priority() int { return s.priority }

// Fetch returns the table entry for symbol, or the declared default for
// symbols outside the table. It performs no network calls and never fails
// for a well-formed table.
func (s *SimulatedTable) Fetch(_ context.Context, symbol string) (model.Quote, error) {
	entry, ok := s.entries[symbol]
	if !ok {
		entry = s.fallback
	}

	q, err := model.NewQuote(symbol, s.Name(), entry.Price)
	if err != nil {
		return model.Quote{}, err
	}

	q.Change = entry.Change
	q.ChangePercent = entry.ChangePercent
	q.Volume = entry.Volume

	return q, nil
}
