package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/iliyamo/blog-system/internal/mail"
	"github.com/iliyamo/blog-system/internal/model"
	"github.com/iliyamo/blog-system/internal/repository"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeUsers is an in-memory user repository.
type fakeUsers struct {
	mu    sync.Mutex
	byID  map[uint64]*model.User
	next  uint64
	err   error // returned by every call when set
	saves int
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{byID: map[uint64]*model.User{}}
	for _, u := range users {
		f.next++
		u.ID = f.next
		cp := *u
		f.byID[u.ID] = &cp
	}
	return f
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) First(ctx context.Context) (*model.User, error) {
	return f.GetByID(ctx, 1)
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.next++
	u.ID = f.next
	cp := *u
	f.byID[u.ID] = &cp
	f.saves++
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uint64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	f.saves++
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for id, other := range f.byID {
		if id != u.ID && other.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	f.saves++
	return nil
}

func (f *fakeUsers) password(id uint64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].Password
}

// outbox records sent messages.
type outbox struct {
	sent []mail.Message
	err  error
}

func (o *outbox) Send(_ context.Context, m mail.Message) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, m)
	return nil
}

var errDown = errors.New("connection refused")
