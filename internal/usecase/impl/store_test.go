package impl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"gramosi/internal/domain/entity"
	"gramosi/internal/domain/repository"
	"gramosi/internal/domain/service"

	"github.com/google/uuid"
)

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory TransactionManager. Each Execute works on a copy of
// the accounts and publishes it only when fn succeeds.
type memStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]entity.Account
	calls    int

	// failFrom makes the n-th and later Execute calls fail; zero disables it.
	failFrom int

	// hideExisting makes the Exists checks miss, so only Create sees duplicates.
	hideExisting bool
}

func newMemStore() *memStore {
	return &memStore{accounts: make(map[uuid.UUID]entity.Account)}
}

func (s *memStore) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.failFrom > 0 && s.calls >= s.failFrom {
		return errStoreDown
	}

	tx := &memTx{store: s, accounts: make(map[uuid.UUID]entity.Account, len(s.accounts))}
	for id, account := range s.accounts {
		tx.accounts[id] = account
	}

	if err := fn(tx); err != nil {
		return err
	}
	s.accounts = tx.accounts

	return nil
}

func (s *memStore) account(id uuid.UUID) (entity.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]

	return account, ok
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.accounts)
}

type memTx struct {
	store    *memStore
	accounts map[uuid.UUID]entity.Account
}

func (tx *memTx) AccountRepo() repository.AccountRepository { return tx }
func (tx *memTx) FollowRepo() repository.FollowRepository { return nil }
func (tx *memTx) PostRepo() repository.PostRepository { return nil }
func (tx *memTx) CommentRepo() repository.CommentRepository { return nil }

func (tx *memTx) Create(_ context.Context, account *entity.Account) error {
	for _, existing := range tx.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
		if existing.UserName == account.UserName {
			return repository.ErrDuplicateUserName
		}
	}

	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	tx.accounts[account.ID] = *account

	return nil
}

func (tx *memTx) FindByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	account, ok := tx.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return &account, nil
}

func (tx *memTx) FindByIdentifier(_ context.Context, identifier string) (*entity.Account, error) {
	for _, account := range tx.accounts {
		if account.Email == entity.NormalizeEmail(identifier) {
			return &account, nil
		}
	}
	for _, account := range tx.accounts {
		if account.UserName == strings.TrimSpace(identifier) {
			return &account, nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (tx *memTx) FindByIdentifierAndResetOTP(ctx context.Context, identifier, code string, now time.Time) (*entity.Account, error) {
	account, err := tx.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if account.ResetOTPCode == nil || *account.ResetOTPCode != code || !account.ResetOTPExpiresAt.After(now) {
		return nil, repository.ErrAccountNotFound
	}

	return account, nil
}

func (tx *memTx) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if tx.store.hideExisting {
		return false, nil
	}

	for _, account := range tx.accounts {
		if account.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (tx *memTx) ExistsByUserName(_ context.Context, userName string) (bool, error) {
	if tx.store.hideExisting {
		return false, nil
	}

	for _, account := range tx.accounts {
		if account.UserName == userName {
			return true, nil
		}
	}

	return false, nil
}

func (tx *memTx) UpdateCredentials(_ context.Context, account *entity.Account) error {
	stored, ok := tx.accounts[account.ID]
	if !ok {
		return repository.ErrAccountNotFound
	}

	stored.PasswordHash = account.PasswordHash
	stored.IsVerified = account.IsVerified
	stored.OTPCode, stored.OTPExpiresAt = account.OTPCode, account.OTPExpiresAt
	stored.ResetOTPCode, stored.ResetOTPExpiresAt = account.ResetOTPCode, account.ResetOTPExpiresAt
	tx.accounts[account.ID] = stored

	return nil
}

func (tx *memTx) UpdateProfile(_ context.Context, account *entity.Account) error {
	stored, ok := tx.accounts[account.ID]
	if !ok {
		return repository.ErrAccountNotFound
	}

	stored.Bio = account.Bio
	stored.ProfilePicture = account.ProfilePicture
	tx.accounts[account.ID] = stored

	return nil
}

func (tx *memTx) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := tx.accounts[id]; !ok {
		return repository.ErrAccountNotFound
	}
	delete(tx.accounts, id)

	return nil
}

func (tx *memTx) ListSuggested(_ context.Context, excludeID uuid.UUID, limit int) ([]*entity.AccountSummary, error) {
	summaries := make([]*entity.AccountSummary, 0, limit)
	for _, account := range tx.accounts {
		if account.ID == excludeID {
			continue
		}
		summaries = append(summaries, summarize(&account))
	}
	slices.SortFunc(summaries, func(a, b *entity.AccountSummary) int { return strings.Compare(a.UserName, b.UserName) })

	return summaries[:min(limit, len(summaries))], nil
}

type sentMessage struct {
	to      string
	subject string
	body    string
}

// recordingSender records every message and fails with err when set.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (s *recordingSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMessage{to: to, subject: subject, body: body})

	return nil
}

func (s *recordingSender) last() sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sent) == 0 {
		return sentMessage{}
	}

	return s.sent[len(s.sent)-1]
}

// recordingPublisher keeps published event types.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*service.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event *service.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}

	return types
}

// sequenceOTP hands out codes in order.
type sequenceOTP struct {
	codes []string
	next  int
}

func (g *sequenceOTP) Generate() (string, error) {
	code := g.codes[g.next%len(g.codes)]
	g.next++

	return code, nil
}

// testClock is a settable clock.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
