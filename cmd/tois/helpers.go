package main

import (
	"context"
	"fmt"
	"math/big"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/tois-project/tois/internal/alias"
	"github.com/tois-project/tois/internal/config"
	"github.com/tois-project/tois/internal/storage"
)

// openLedger opens the configured ledger database and brings its schema up
// to date. Callers own the returned store and must Close it.
func openLedger(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("data.db")
	if dbPath == "" {
		dbPath = filepath.Join(config.DefaultDataDir(), "tois.db")
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger at %s: %w", dbPath, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate ledger: %w", err)
	}

	return store, nil
}

// aliasStore returns the store for the persisted account alias map.
func aliasStore() *alias.Store {
	path := viper.GetString("data.aliases")
	if path == "" {
		path = filepath.Join(config.DefaultDataDir(), "aliases.json")
	}
	return alias.NewStore(config.ExpandPath(path))
}

// parseAmount converts a decimal amount string like "-25.50" into integer
// minor currency units (-2550). Values with more than two decimal places are
// rejected: nothing fractional may persist.
func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	cents := new(big.Rat).Mul(r, big.NewRat(100, 1))
	if !cents.IsInt() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	return cents.Num().Int64(), nil
}

// parseEntryID parses a numeric entry id argument.
func parseEntryID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q", s)
	}
	return id, nil
}

// coerceFieldValue converts a CLI value string into the typed value the
// given entry field expects. Unknown fields pass through as strings so the
// repository can report them properly.
func coerceFieldValue(field, value string) (any, error) {
	switch field {
	case "amount":
		return parseAmount(value)
	case "reconciled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q", value)
		}
		return b, nil
	case "transfer_entry_id":
		if value == "none" {
			return nil, nil
		}
		return parseEntryID(value)
	default:
		return value, nil
	}
}

// formatAmount renders integer minor units as a decimal string: -2550
// becomes "-25.50".
func formatAmount(minorUnits int64) string {
	sign := ""
	if minorUnits < 0 {
		sign = "-"
		minorUnits = -minorUnits
	}
	return fmt.Sprintf("%s%d.%02d", sign, minorUnits/100, minorUnits%100)
}
