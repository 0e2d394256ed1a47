// Package identity persists registered accounts and the current-session
// pointer as two JSON documents in a kv.Store.
//
// The accounts document is rewritten whole on every change. Read-modify-write
// cycles within one Repository are serialized; across processes the last full
// write wins.
//
// Reads degrade: a missing, unreadable or undecodable accounts document reads
// as an empty list and a broken session document reads as no session. Writes
// always report failures, wrapped so that errors.Is(err, common.ErrStorage)
// holds.
package identity

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/dmitrijs2005/ratemymovie/internal/common"
	"github.com/dmitrijs2005/ratemymovie/internal/kv"
	"github.com/dmitrijs2005/ratemymovie/internal/logging"
	"github.com/dmitrijs2005/ratemymovie/internal/models"
)

const (
	KeyUsers       = "users"
	KeyCurrentUser = "current_user"
)

type Repository struct {
	store kv.Store
	log   logging.Logger

	// guards read-modify-write of the users document
	usersMu sync.Mutex
}

func NewRepository(store kv.Store, log logging.Logger) *Repository {
	return &Repository{store: store, log: logging.OrNop(log).With("component", "identity")}
}

// ListAccounts returns all accounts in insertion order.
func (r *Repository) ListAccounts(ctx context.Context) []models.Account {
	raw, err := r.store.Get(ctx, KeyUsers)
	if err != nil {
		r.log.Warn(ctx, "failed to read accounts, using empty list", "error", err)
		return []models.Account{}
	}
	if raw == nil {
		return []models.Account{}
	}

	var accounts []models.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		r.log.Warn(ctx, "failed to decode accounts, using empty list", "error", err)
		return []models.Account{}
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return accounts
}

// SaveAccounts overwrites the accounts document.
func (r *Repository) SaveAccounts(ctx context.Context, accounts []models.Account) error {
	if accounts == nil {
		accounts = []models.Account{}
	}
	data, err := json.Marshal(accounts)
	if err != nil {
		return common.StorageError("encode accounts", err)
	}
	if err := r.store.Set(ctx, KeyUsers, data); err != nil {
		r.log.Error(ctx, "failed to save accounts", "error", err)
		return common.StorageError("save accounts", err)
	}
	return nil
}

// AddAccount appends acc to the accounts document. It fails with
// common.ErrConflict when an account with the same email already exists.
func (r *Repository) AddAccount(ctx context.Context, acc models.Account) error {
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	next, ok := appendAccount(r.ListAccounts(ctx), acc)
	if !ok {
		return common.ErrConflict
	}
	return r.SaveAccounts(ctx, next)
}

// ReplaceAccount swaps the stored account that has acc.ID for acc, keeping
// its position. found is false, and nothing is written, when no account
// has that id.
func (r *Repository) ReplaceAccount(ctx context.Context, acc models.Account) (found bool, err error) {
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	next, found := replaceAccount(r.ListAccounts(ctx), acc)
	if !found {
		return false, nil
	}
	return true, r.SaveAccounts(ctx, next)
}

// FindAccountByEmail returns the first account whose email equals email
// ignoring case, or nil.
func (r *Repository) FindAccountByEmail(ctx context.Context, email string) *models.Account {
	return findByEmail(r.ListAccounts(ctx), email)
}

func (r *Repository) SetSessionAccount(ctx context.Context, acc models.Account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return common.StorageError("encode session", err)
	}
	if err := r.store.Set(ctx, KeyCurrentUser, data); err != nil {
		r.log.Error(ctx, "failed to save session", "error", err)
		return common.StorageError("save session", err)
	}
	return nil
}

// GetSessionAccount returns the persisted session account, or nil when there
// is none or it cannot be read.
func (r *Repository) GetSessionAccount(ctx context.Context) *models.Account {
	raw, err := r.store.Get(ctx, KeyCurrentUser)
	if err != nil {
		r.log.Warn(ctx, "failed to read session", "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var acc *models.Account
	if err := json.Unmarshal(raw, &acc); err != nil {
		r.log.Warn(ctx, "failed to decode session", "error", err)
		return nil
	}
	return acc
}

func (r *Repository) ClearSessionAccount(ctx context.Context) error {
	if err := r.store.Delete(ctx, KeyCurrentUser); err != nil {
		r.log.Error(ctx, "failed to clear session", "error", err)
		return common.StorageError("clear session", err)
	}
	return nil
}

// appendAccount returns prior plus acc, or ok=false when acc's email is
// already taken. prior is not modified.
func appendAccount(prior []models.Account, acc models.Account) (next []models.Account, ok bool) {
	if findByEmail(prior, acc.Email) != nil {
		return prior, false
	}
	next = make([]models.Account, 0, len(prior)+1)
	next = append(next, prior...)
	return append(next, acc), true
}

// replaceAccount returns a copy of prior with the account matching acc.ID
// replaced in place.
func replaceAccount(prior []models.Account, acc models.Account) ([]models.Account, bool) {
	for i := range prior {
		if prior[i].ID == acc.ID {
			next := append([]models.Account(nil), prior...)
			next[i] = acc
			return next, true
		}
	}
	return prior, false
}

func findByEmail(accounts []models.Account, email string) *models.Account {
	for i := range accounts {
		if strings.EqualFold(accounts[i].Email, email) {
			acc := accounts[i]
			return &acc
		}
	}
	return nil
}
