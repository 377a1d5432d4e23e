package importer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tois-project/tois/internal/alias"
	"github.com/tois-project/tois/internal/common"
	"github.com/tois-project/tois/internal/model"
	"github.com/tois-project/tois/internal/service"
	"github.com/tois-project/tois/internal/testutil"
)

// stubResolver is a canned operator: it always picks the same index.
type stubResolver struct {
	err   error
	index int
	calls int
}

func (r *stubResolver) SelectAccount(_ context.Context, _ string, _ []string) (int, error) {
	r.calls++
	return r.index, r.err
}

func newTestAliasStore(t *testing.T) *alias.Store {
	t.Helper()
	return alias.NewStore(filepath.Join(t.TempDir(), "aliases.json"))
}

func sampleStatement() *model.Statement {
	return &model.Statement{
		ExternalAccountID: "9912-3",
		Currency:          "BRL",
		Transactions: []model.StatementTransaction{
			{Date: model.NewDate(2017, 11, 1), Amount: -2500, Description: "Lanche no McDo"},
			{Date: model.NewDate(2017, 11, 5), Amount: -15000, Description: "Mercado"},
			{Date: model.NewDate(2017, 11, 27), Amount: 300000, Description: "Salario"},
		},
	}
}

func TestMatcher_ResolveAccount_PromptsOnce(t *testing.T) {
	store := testutil.SetupTestLedger(t, testutil.BasicAccounts()...)
	aliases := newTestAliasStore(t)
	resolver := &stubResolver{index: 0} // accounts are sorted: ccsp, foodBr, ppsp
	ctx := context.Background()

	matcher := NewMatcher(store, aliases, resolver)

	name, err := matcher.ResolveAccount(ctx, sampleStatement())
	require.NoError(t, err)
	assert.Equal(t, "ccsp", name)
	assert.Equal(t, 1, resolver.calls)

	// Resolving the same identifier again must hit the persisted alias and
	// never prompt.
	name, err = matcher.ResolveAccount(ctx, sampleStatement())
	require.NoError(t, err)
	assert.Equal(t, "ccsp", name)
	assert.Equal(t, 1, resolver.calls, "second resolution must not prompt")
}

func TestMatcher_ResolveAccount_InitializesAliasMap(t *testing.T) {
	store := testutil.SetupTestLedger(t, testutil.BasicAccounts()...)
	aliases := newTestAliasStore(t)
	matcher := NewMatcher(store, aliases, &stubResolver{index: 2})

	_, err := matcher.ResolveAccount(context.Background(), sampleStatement())
	require.NoError(t, err)

	m, err := aliases.Load()
	require.NoError(t, err)
	// One alias set per known account, lazily created on first run.
	assert.Len(t, m, 3)
	assert.Equal(t, []string{"9912-3"}, m["ppsp"])
	assert.Empty(t, m["ccsp"])
	assert.Empty(t, m["foodBr"])
}

func TestMatcher_ResolveAccount_SelectionOutOfRange(t *testing.T) {
	store := testutil.SetupTestLedger(t, testutil.BasicAccounts()...)
	matcher := NewMatcher(store, newTestAliasStore(t), &stubResolver{index: 7})

	_, err := matcher.ResolveAccount(context.Background(), sampleStatement())
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestMatcher_ResolveAccount_ResolverError(t *testing.T) {
	store := testutil.SetupTestLedger(t, testutil.BasicAccounts()...)
	aliases := newTestAliasStore(t)
	wantErr := errors.New("operator walked away")
	matcher := NewMatcher(store, aliases, &stubResolver{err: wantErr})

	_, err := matcher.ResolveAccount(context.Background(), sampleStatement())
	require.ErrorIs(t, err, wantErr)

	// The lazily initialized map is still persisted.
	m, loadErr := aliases.Load()
	require.NoError(t, loadErr)
	assert.Len(t, m, 3)
}

func TestMatcher_ResolveAccount_NoAccounts(t *testing.T) {
	store := testutil.SetupTestLedger(t)
	matcher := NewMatcher(store, newTestAliasStore(t), &stubResolver{})

	_, err := matcher.ResolveAccount(context.Background(), sampleStatement())
	require.Error(t, err)

	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestMatcher_ImportStatement(t *testing.T) {
	store := testutil.SetupTestLedger(t, testutil.BasicAccounts()...)
	matcher := NewMatcher(store, newTestAliasStore(t), &stubResolver{index: 0})
	ctx := context.Background()

	statement := sampleStatement()
	result, err := matcher.ImportStatement(ctx, statement)
	require.NoError(t, err)
	assert.Equal(t, "ccsp", result.AccountName)
	assert.Equal(t, 3, result.Imported)
	assert.Zero(t, result.Skipped)
	assert.Len(t, result.EntryIDs, 3)

	entries, err := store.QueryEntries(ctx, service.EntryFilter{Accounts: []string{"ccsp"}})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Entries carry the statement's values; transfer linkage stays unset.
	assert.Equal(t, model.NewDate(2017, 11, 1), entries[0].Date)
	assert.Equal(t, int64(-2500), entries[0].Amount)
	assert.Equal(t, "Lanche no McDo", entries[0].Description)
	for _, e := range entries {
		assert.Empty(t, e.TransferAccount)
		assert.Nil(t, e.TransferEntryID)
		assert.False(t, e.Reconciled)
	}
}

func TestMatcher_ImportStatement_ReimportDuplicates(t *testing.T) {
	// Re-importing the same statement produces duplicates. That is the
	// documented default, not a bug.
	store := testutil.SetupTestLedger(t, testutil.BasicAccounts()...)
	matcher := NewMatcher(store, newTestAliasStore(t), &stubResolver{index: 0})
	ctx := context.Background()

	for run := 0; run < 2; run++ {
		result, err := matcher.ImportStatement(ctx, sampleStatement())
		require.NoError(t, err)
		assert.Equal(t, 3, result.Imported)
	}

	entries, err := store.QueryEntries(ctx, service.EntryFilter{Accounts: []string{"ccsp"}})
	require.NoError(t, err)
	assert.Len(t, entries, 6)
}

func TestMatcher_ImportStatement_SkipDuplicates(t *testing.T) {
	store := testutil.SetupTestLedger(t, testutil.BasicAccounts()...)
	aliases := newTestAliasStore(t)
	resolver := &stubResolver{index: 0}
	ctx := context.Background()

	first := NewMatcher(store, aliases, resolver)
	_, err := first.ImportStatement(ctx, sampleStatement())
	require.NoError(t, err)

	second := NewMatcher(store, aliases, resolver, WithSkipDuplicates())
	result, err := second.ImportStatement(ctx, sampleStatement())
	require.NoError(t, err)
	assert.Zero(t, result.Imported)
	assert.Equal(t, 3, result.Skipped)

	entries, err := store.QueryEntries(ctx, service.EntryFilter{Accounts: []string{"ccsp"}})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestMatcher_ImportStatement_Progress(t *testing.T) {
	store := testutil.SetupTestLedger(t, testutil.BasicAccounts()...)

	var ticks []int
	matcher := NewMatcher(store, newTestAliasStore(t), &stubResolver{index: 0},
		WithProgress(func(done, total int) {
			require.Equal(t, 3, total)
			ticks = append(ticks, done)
		}))

	_, err := matcher.ImportStatement(context.Background(), sampleStatement())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ticks)
}

func TestMatcher_ImportStatement_MissingExternalID(t *testing.T) {
	store := testutil.SetupTestLedger(t, testutil.BasicAccounts()...)
	matcher := NewMatcher(store, newTestAliasStore(t), &stubResolver{})

	_, err := matcher.ImportStatement(context.Background(), &model.Statement{})
	require.ErrorIs(t, err, common.ErrInvalidInput)
}
