// Package currency holds the display-currency preference. The selection is
// persisted alongside the ledger records; formatting is symbol plus the
// amount at two decimal places.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"pos-service/internal/kv"
)

const prefKey = "pos_currency"

// ErrUnknownCurrency is returned when setting a code outside Currencies.
var ErrUnknownCurrency = errors.New("unknown currency code")

// Currency is a selectable display currency.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Currencies is the fixed selection offered by the settings screen. The
// first entry is the default.
var Currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "KSH", Symbol: "KSh", Name: "Kenyan Shilling"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	{Code: "ZAR", Symbol: "R", Name: "South African Rand"},
	{Code: "NGN", Symbol: "₦", Name: "Nigerian Naira"},
}

// Lookup returns the currency with the given code.
func Lookup(code string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// Preferences stores the selected currency in the key-value backend.
type Preferences struct {
	mu sync.Mutex
	kv kv.Store
}

// NewPreferences creates a preference store on the given backend.
func NewPreferences(backend kv.Store) *Preferences {
	return &Preferences{kv: backend}
}

// Get returns the selected currency, defaulting to the first entry of
// Currencies when none has been persisted.
func (p *Preferences) Get(ctx context.Context) (Currency, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := p.kv.Get(ctx, prefKey)
	if errors.Is(err, kv.ErrNotFound) {
		return Currencies[0], nil
	}
	if err != nil {
		return Currency{}, fmt.Errorf("read currency preference: %w", err)
	}

	var c Currency
	if err := json.Unmarshal(data, &c); err != nil {
		return Currency{}, fmt.Errorf("decode currency preference: %w", err)
	}
	return c, nil
}

// Set persists the selection. The code must be one of Currencies; symbol
// and name are taken from the catalog, not the caller.
func (p *Preferences) Set(ctx context.Context, code string) (Currency, error) {
	c, ok := Lookup(code)
	if !ok {
		return Currency{}, ErrUnknownCurrency
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := json.Marshal(c)
	if err != nil {
		return Currency{}, fmt.Errorf("encode currency preference: %w", err)
	}
	if err := p.kv.Set(ctx, prefKey, data); err != nil {
		return Currency{}, fmt.Errorf("write currency preference: %w", err)
	}
	return c, nil
}

// Format renders an amount in the selected currency: symbol plus two
// decimal places.
func (p *Preferences) Format(ctx context.Context, amount float64) (string, error) {
	c, err := p.Get(ctx)
	if err != nil {
		return "", err
	}
	return FormatIn(c, amount), nil
}

// FormatIn renders an amount in the given currency.
func FormatIn(c Currency, amount float64) string {
	return fmt.Sprintf("%s%.2f", c.Symbol, amount)
}
