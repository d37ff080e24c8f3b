package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
)

// ErrNoSnapshot is returned by LatestSummary when nothing has been
// persisted yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Store writes and reads market snapshots.
type Store struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// New creates a Store on an existing pool. The pool's lifecycle stays
// with the caller.
func New(db *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// quoteRow is one snapshot_quotes row. Crypto and commodity summaries
// carry price only, so the detail columns are nullable.
type quoteRow struct {
	Category      string
	Symbol        string
	Price         decimal.Decimal
	Change        *decimal.Decimal
	ChangePercent *string
	Volume        *int64
	Source        *string
	RetrievedAt   time.Time
}

// flattenQuotes turns a summary into its per-symbol rows.
func flattenQuotes(s model.MarketSummary) []quoteRow {
	rows := make([]quoteRow, 0, s.QuoteCount())

	for sym, price := range s.CryptoPrices {
		rows = append(rows, quoteRow{
			Category:    string(model.CategoryCrypto),
			Symbol:      sym,
			Price:       price,
			RetrievedAt: s.Timestamp,
		})
	}

	for sym, q := range s.StockPrices {
		change := q.Change
		pct := q.ChangePercent
		volume := q.Volume
		source := q.Source
		rows = append(rows, quoteRow{
			Category:      string(model.CategoryStock),
			Symbol:        sym,
			Price:         q.Price,
			Change:        &change,
			ChangePercent: &pct,
			Volume:        &volume,
			Source:        &source,
			RetrievedAt:   q.RetrievedAt,
		})
	}

	for sym, price := range s.CommodityPrices {
		rows = append(rows, quoteRow{
			Category:    string(model.CategoryCommodity),
			Symbol:      sym,
			Price:       price,
			RetrievedAt: s.Timestamp,
		})
	}

	return rows
}

// applyRow folds one quote row back into a summary being reassembled.
func applyRow(s *model.MarketSummary, r quoteRow) error {
	switch model.Category(r.Category) {
	case model.CategoryCrypto:
		s.CryptoPrices[r.Symbol] = r.Price
	case model.CategoryCommodity:
		s.CommodityPrices[r.Symbol] = r.Price
	case model.CategoryStock:
		q := model.Quote{
			Symbol:      r.Symbol,
			Price:       r.Price,
			RetrievedAt: r.RetrievedAt,
		}
		if r.Change != nil {
			q.Change = *r.Change
		}
		if r.ChangePercent != nil {
			q.ChangePercent = *r.ChangePercent
		}
		if r.Volume != nil {
			q.Volume = *r.Volume
		}
		if r.Source != nil {
			q.Source = *r.Source
		}
		s.StockPrices[r.Symbol] = q
	default:
		return fmt.Errorf("unknown category %q for %s", r.Category, r.Symbol)
	}
	return nil
}

// SaveSummary writes the snapshot row and its quote rows in one batch.
func (s *Store) SaveSummary(ctx context.Context, sum model.MarketSummary) error {
	rows := flattenQuotes(sum)

	var rate *string
	if sum.ExchangeRate != nil {
		v := sum.ExchangeRate.String()
		rate = &v
	}

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO market_snapshots (snapshot_id, created_at, exchange_rate, sources)
		VALUES ($1::uuid, $2, $3::numeric, $4)
		ON CONFLICT (snapshot_id) DO NOTHING
	`, sum.ID.String(), sum.Timestamp, rate, sum.SourcesUsed)

	for _, r := range rows {
		var change *string
		if r.Change != nil {
			v := r.Change.String()
			change = &v
		}
		batch.Queue(`
			INSERT INTO snapshot_quotes (snapshot_id, category, symbol, price, change, change_percent, volume, source, retrieved_at)
			VALUES ($1::uuid, $2, $3, $4::numeric, $5::numeric, $6, $7, $8, $9)
			ON CONFLICT (snapshot_id, category, symbol) DO NOTHING
		`, sum.ID.String(), r.Category, r.Symbol, r.Price.String(), change, r.ChangePercent, r.Volume, r.Source, r.RetrievedAt)
	}

	start := time.Now()
	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	conflicts := 0
	for i := 0; i < len(rows)+1; i++ {
		ct, err := results.Exec()
		if err != nil {
			return fmt.Errorf("insert snapshot %s: %w", sum.ID, err)
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	s.logger.Debug("snapshot saved",
		"id", sum.ID,
		"rows", len(rows)+1,
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// LatestSummary reassembles the most recently stored snapshot.
func (s *Store) LatestSummary(ctx context.Context) (model.MarketSummary, error) {
	sum := model.NewMarketSummary()

	var (
		id   string
		rate *string
	)
	err := s.db.QueryRow(ctx, `
		SELECT snapshot_id::text, created_at, exchange_rate::text, sources
		FROM market_snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&id, &sum.Timestamp, &rate, &sum.SourcesUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MarketSummary{}, ErrNoSnapshot
		}
		return model.MarketSummary{}, fmt.Errorf("read latest snapshot: %w", err)
	}

	sum.ID, err = uuid.Parse(id)
	if err != nil {
		return model.MarketSummary{}, fmt.Errorf("parse snapshot id %q: %w", id, err)
	}
	if rate != nil {
		v, err := decimal.NewFromString(*rate)
		if err != nil {
			return model.MarketSummary{}, fmt.Errorf("parse exchange rate %q: %w", *rate, err)
		}
		sum.ExchangeRate = &v
	}

	rows, err := s.db.Query(ctx, `
		SELECT category, symbol, price::text, change::text, change_percent, volume, source, retrieved_at
		FROM snapshot_quotes
		WHERE snapshot_id = $1::uuid
	`, id)
	if err != nil {
		return model.MarketSummary{}, fmt.Errorf("read snapshot quotes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r     quoteRow
			price string
			chg   *string
		)
		if err := rows.Scan(&r.Category, &r.Symbol, &price, &chg, &r.ChangePercent, &r.Volume, &r.Source, &r.RetrievedAt); err != nil {
			return model.MarketSummary{}, fmt.Errorf("scan snapshot quote: %w", err)
		}
		if r.Price, err = decimal.NewFromString(price); err != nil {
			return model.MarketSummary{}, fmt.Errorf("parse price %q for %s: %w", price, r.Symbol, err)
		}
		if chg != nil {
			v, err := decimal.NewFromString(*chg)
			if err != nil {
				return model.MarketSummary{}, fmt.Errorf("parse change %q for %s: %w", *chg, r.Symbol, err)
			}
			r.Change = &v
		}
		if err := applyRow(&sum, r); err != nil {
			return model.MarketSummary{}, err
		}
	}
	if err := rows.Err(); err != nil {
		return model.MarketSummary{}, fmt.Errorf("read snapshot quotes: %w", err)
	}

	return sum, nil
}
