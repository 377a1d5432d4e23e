package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_SelectAccount(t *testing.T) {
	accounts := []string{"ccsp", "foodBr", "ppsp"}

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "first choice", input: "1\n", want: 0},
		{name: "last choice", input: "3\n", want: 2},
		{name: "whitespace tolerated", input: "  2 \n", want: 1},
		{name: "re-prompts after garbage", input: "zero\n0\n99\n2\n", want: 1},
		{name: "exhausted input", input: "nope\n", wantErr: true},
		{name: "empty input", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.SelectAccount(context.Background(), "9912-3", accounts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// The prompt shows the unknown identifier and every candidate.
			assert.Contains(t, out.String(), "9912-3")
			for _, name := range accounts {
				assert.Contains(t, out.String(), name)
			}
		})
	}
}

func TestPrompter_SelectAccount_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPrompter(strings.NewReader("1\n"), &strings.Builder{})
	_, err := p.SelectAccount(ctx, "9912-3", []string{"ccsp"})
	require.ErrorIs(t, err, context.Canceled)
}
