package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "negative with decimals", input: "-25.50", want: -2550},
		{name: "positive with decimals", input: "1.50", want: 150},
		{name: "whole number", input: "200", want: 20000},
		{name: "zero", input: "0", want: 0},
		{name: "single decimal", input: "-1.5", want: -150},
		{name: "three decimals rejected", input: "1.505", wantErr: true},
		{name: "not a number", input: "tois", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "-25.50", formatAmount(-2550))
	assert.Equal(t, "1.50", formatAmount(150))
	assert.Equal(t, "0.05", formatAmount(5))
	assert.Equal(t, "0.00", formatAmount(0))
	assert.Equal(t, "200.00", formatAmount(20000))
}

func TestCoerceFieldValue(t *testing.T) {
	v, err := coerceFieldValue("amount", "-25.50")
	require.NoError(t, err)
	assert.Equal(t, int64(-2550), v)

	v, err = coerceFieldValue("reconciled", "true")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = coerceFieldValue("transfer_entry_id", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = coerceFieldValue("transfer_entry_id", "none")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = coerceFieldValue("description", "toiz")
	require.NoError(t, err)
	assert.Equal(t, "toiz", v)

	_, err = coerceFieldValue("reconciled", "maybe")
	require.Error(t, err)
}
