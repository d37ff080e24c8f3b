package model

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestNewQuote(t *testing.T) {
	t.Run("valid quote", func(t *testing.T) {
		q, err := NewQuote("PETR4.SA", "alphavantage", decimal.RequireFromString("35.50"))
		if err != nil {
			t.Fatalf("NewQuote() error = %v", err)
		}
		if q.Symbol != "PETR4.SA" {
			t.Errorf("Symbol = %q, want %q", q.Symbol, "PETR4.SA")
		}
		if q.Source != "alphavantage" {
			t.Errorf("Source = %q, want %q", q.Source, "alphavantage")
		}
		if !q.Price.Equal(decimal.RequireFromString("35.50")) {
			t.Errorf("Price = %s, want 35.50", q.Price)
		}
		if q.ChangePercent != "0.00%" {
			t.Errorf("ChangePercent = %q, want %q", q.ChangePercent, "0.00%")
		}
		if q.RetrievedAt.IsZero() {
			t.Error("RetrievedAt is zero, want populated")
		}
	})

	t.Run("zero price is no data", func(t *testing.T) {
		_, err := NewQuote("PETR4.SA", "alphavantage", decimal.Zero)
		if !errors.Is(err, ErrNoData) {
			t.Errorf("NewQuote(price=0) error = %v, want ErrNoData", err)
		}
	})

	t.Run("negative price is no data", func(t *testing.T) {
		_, err := NewQuote("PETR4.SA", "alphavantage", decimal.RequireFromString("-1.25"))
		if !errors.Is(err, ErrNoData) {
			t.Errorf("NewQuote(price<0) error = %v, want ErrNoData", err)
		}
	})

	t.Run("missing symbol", func(t *testing.T) {
		if _, err := NewQuote("", "alphavantage", decimal.NewFromInt(1)); err == nil {
			t.Error("NewQuote(symbol=\"\") error = nil, want non-nil")
		}
	})

	t.Run("missing source", func(t *testing.T) {
		if _, err := NewQuote("PETR4.SA", "", decimal.NewFromInt(1)); err == nil {
			t.Error("NewQuote(source=\"\") error = nil, want non-nil")
		}
	})
}

func TestCategoryValid(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     bool
	}{
		{"exchange rate", CategoryExchangeRate, true},
		{"crypto", CategoryCrypto, true},
		{"stock", CategoryStock, true},
		{"commodity", CategoryCommodity, true},
		{"empty", Category(""), false},
		{"unknown", Category("bond"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.category.Valid(); got != tt.want {
				t.Errorf("Category(%q).Valid() = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestNewMarketSummary(t *testing.T) {
	s := NewMarketSummary()

	if s.ID == uuid.Nil {
		t.Error("ID is nil UUID, want generated")
	}
	if s.Timestamp.IsZero() {
		t.Error("Timestamp is zero, want populated")
	}
	if s.CryptoPrices == nil || s.StockPrices == nil || s.CommodityPrices == nil {
		t.Error("price maps not initialized")
	}
	if s.ExchangeRate != nil {
		t.Errorf("ExchangeRate = %v, want nil until resolved", s.ExchangeRate)
	}
	if s.QuoteCount() != 0 {
		t.Errorf("QuoteCount() = %d, want 0", s.QuoteCount())
	}
}

func TestQuoteCount(t *testing.T) {
	s := NewMarketSummary()
	rate := decimal.RequireFromString("5.42")
	s.ExchangeRate = &rate
	s.CryptoPrices["BTC"] = decimal.RequireFromString("43250.10")
	s.CryptoPrices["ETH"] = decimal.RequireFromString("2280.55")
	s.StockPrices["PETR4.SA"] = Quote{Symbol: "PETR4.SA"}
	s.CommodityPrices["GC=F"] = decimal.RequireFromString("2350.0")

	if got := s.QuoteCount(); got != 5 {
		t.Errorf("QuoteCount() = %d, want 5", got)
	}
}
