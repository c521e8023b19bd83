package user_test

import (
	"context"
	"sync"

	"github.com/kbukum/userauth/user"
)

// fakeStore is an in-memory user.Store that counts calls and can be told to fail.
type fakeStore struct {
	mu      sync.Mutex
	byID    map[string]*user.Record
	order   []string
	calls   map[string]int
	failOn  map[string]error
	blankID bool
	block   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byID:   map[string]*user.Record{},
		calls:  map[string]int{},
		failOn: map[string]error{},
	}
}

func (f *fakeStore) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls[op]++
	err := f.failOn[op]
	block := f.block
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (f *fakeStore) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStore) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeStore) get(id string) *user.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.byID[id]; ok {
		cp := *r
		return &cp
	}
	return nil
}

func (f *fakeStore) FindByEmail(ctx context.Context, email string) (*user.Record, error) {
	if err := f.enter(ctx, "FindByEmail"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*user.Record, error) {
	if err := f.enter(ctx, "FindByID"); err != nil {
		return nil, err
	}
	if r := f.get(id); r != nil {
		return r, nil
	}
	return nil, user.ErrNotFound
}

func (f *fakeStore) Insert(ctx context.Context, rec *user.Record) (string, error) {
	if err := f.enter(ctx, "Insert"); err != nil {
		return "", err
	}
	if f.blankID {
		return "", nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.Email == rec.Email {
			return "", user.ErrDuplicateEmail
		}
	}
	cp := *rec
	f.byID[rec.ID] = &cp
	f.order = append(f.order, rec.ID)
	return rec.ID, nil
}

func (f *fakeStore) UpdateProfile(ctx context.Context, id string, p user.Profile) error {
	if err := f.enter(ctx, "UpdateProfile"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	p.Apply(r)
	return nil
}

func (f *fakeStore) List(ctx context.Context) ([]*user.Record, error) {
	if err := f.enter(ctx, "List"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*user.Record, 0, len(f.order))
	for _, id := range f.order {
		cp := *f.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

var _ user.Store = (*fakeStore)(nil)
