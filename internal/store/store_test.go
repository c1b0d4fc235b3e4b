package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/statements/internal/model"
)

// fakeSource implements Source for testing.
type fakeSource struct {
	accounts    []model.Account
	issues      []model.Issue
	vouchers    []model.Voucher
	accountsErr error
	vouchersErr error

	gotWindow model.Window
	calls     atomic.Int32
}

func (f *fakeSource) ListAccounts(ctx context.Context, bookID string) ([]model.Account, []model.Issue, error) {
	f.calls.Add(1)
	if f.accountsErr != nil {
		return nil, nil, f.accountsErr
	}
	return f.accounts, f.issues, nil
}

func (f *fakeSource) ListVouchers(ctx context.Context, bookID string, w model.Window) ([]model.Voucher, error) {
	f.calls.Add(1)
	f.gotWindow = w
	if f.vouchersErr != nil {
		return nil, f.vouchersErr
	}
	return f.vouchers, nil
}

func TestLoad(t *testing.T) {
	src := &fakeSource{
		accounts: []model.Account{{Code: "1001"}, {Code: "6001"}},
		issues:   []model.Issue{{Ref: "6602", Reason: "bad balance"}},
		vouchers: []model.Voucher{
			{ID: "2025-01-001", Issues: []model.Issue{{Ref: "2025-01-001b", Reason: "bad credit"}}},
			{ID: "2025-01-002"},
		},
	}
	w := model.Until(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	snap, err := Load(context.Background(), src, "acme", w)
	require.NoError(t, err)
	assert.Equal(t, "acme", snap.BookID)
	assert.Len(t, snap.Accounts, 2)
	assert.Len(t, snap.Vouchers, 2)
	assert.Equal(t, w, src.gotWindow)
	assert.Equal(t, int32(2), src.calls.Load())

	require.Len(t, snap.Issues, 2)
	assert.Equal(t, "6602", snap.Issues[0].Ref)
	assert.Equal(t, "2025-01-001b", snap.Issues[1].Ref)
}

func TestLoad_FetchErrors(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name string
		src  *fakeSource
		want string
	}{
		{"accounts", &fakeSource{accountsErr: boom}, "listing accounts of acme"},
		{"vouchers", &fakeSource{vouchersErr: boom}, "listing vouchers of acme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Load(context.Background(), tt.src, "acme", model.Window{})
			require.Error(t, err)
			assert.Nil(t, snap)
			assert.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_BookNotFound(t *testing.T) {
	src := &fakeSource{accountsErr: ErrBookNotFound}
	_, err := Load(context.Background(), src, "ghost", model.Window{})
	assert.ErrorIs(t, err, ErrBookNotFound)
}
