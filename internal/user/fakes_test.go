// AngelaMos | 2026
// fakes_test.go

package user

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/carterperez-dev/templates/go-accounts/internal/address"
	"github.com/carterperez-dev/templates/go-accounts/internal/config"
	"github.com/carterperez-dev/templates/go-accounts/internal/core"
	"github.com/carterperez-dev/templates/go-accounts/internal/events"
	"github.com/carterperez-dev/templates/go-accounts/internal/phone"
	"github.com/carterperez-dev/templates/go-accounts/internal/role"
	"github.com/carterperez-dev/templates/go-accounts/internal/testutil"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]*User
	calls []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*User{}}
}

func (f *fakeRepo) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Create")
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return fmt.Errorf("create user: %w", ErrUsernameTaken)
		}
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", ErrEmailTaken)
		}
	}
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetByID")
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	out := *u
	return &out, nil
}

func (f *fakeRepo) find(match func(*User) bool) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, fmt.Errorf("find user: %w", core.ErrNotFound)
}

func (f *fakeRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	return f.find(func(u *User) bool { return u.Username == username })
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	return f.find(func(u *User) bool { return u.Email == email })
}

func (f *fakeRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	f.record("ExistsByUsername")
	_, err := f.find(func(u *User) bool { return u.Username == username })
	return err == nil, nil
}

func (f *fakeRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.record("ExistsByEmail")
	_, err := f.find(func(u *User) bool { return u.Email == email })
	return err == nil, nil
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Update")
	if _, ok := f.users[u.ID]; !ok {
		return fmt.Errorf("update user: %w", core.ErrDatabaseOperation)
	}
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeRepo) UpdatePassword(
	_ context.Context,
	id, passwordHash, actor string,
	at time.Time,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdatePassword")
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	u.UpdatedBy = actor
	u.UpdatedAt = at
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Delete")
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context, params ListUsersParams) ([]User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

type fakeRoles struct {
	mu        sync.Mutex
	roles     map[string]role.Role
	links     map[string]map[string]bool
	assignErr map[string]error
}

func newFakeRoles(roles ...role.Role) *fakeRoles {
	f := &fakeRoles{
		roles:     map[string]role.Role{},
		links:     map[string]map[string]bool{},
		assignErr: map[string]error{},
	}
	for _, r := range roles {
		f.roles[r.ID] = r
	}
	return f
}

func (f *fakeRoles) GetRoleByID(_ context.Context, id string) (*role.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roles[id]
	if !ok {
		return nil, core.NotFoundError("role", "id", id)
	}
	return &r, nil
}

func (f *fakeRoles) GetRoleByName(_ context.Context, name string) (*role.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r.Name == name {
			out := r
			return &out, nil
		}
	}
	return nil, core.NotFoundError("role", "name", name)
}

func (f *fakeRoles) GetRolesByUserID(_ context.Context, userID string) ([]role.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []role.Role{}
	for roleID := range f.links[userID] {
		out = append(out, f.roles[roleID])
	}
	return out, nil
}

func (f *fakeRoles) AssignRoleToUser(_ context.Context, userID, roleID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.assignErr[roleID]; err != nil {
		return false, err
	}
	if _, ok := f.roles[roleID]; !ok {
		return false, core.NotFoundError("role", "id", roleID)
	}
	if f.links[userID] == nil {
		f.links[userID] = map[string]bool{}
	}
	if f.links[userID][roleID] {
		return false, nil
	}
	f.links[userID][roleID] = true
	return true, nil
}

func (f *fakeRoles) RemoveRoleFromUser(_ context.Context, userID, roleID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.links[userID][roleID] {
		return false, nil
	}
	delete(f.links[userID], roleID)
	return true, nil
}

type fakeAddresses struct {
	mu     sync.Mutex
	byUser map[string][]address.Address
	failOn string
}

func newFakeAddresses() *fakeAddresses {
	return &fakeAddresses{byUser: map[string][]address.Address{}}
}

func (f *fakeAddresses) ListAddresses(_ context.Context, userID string) ([]address.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]address.Address{}, f.byUser[userID]...), nil
}

func (f *fakeAddresses) CreateAddress(
	_ context.Context,
	userID string,
	addr *address.Address,
) (*address.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && addr.Label == f.failOn {
		return nil, core.BusinessRuleError("address rejected", "ADDRESS_REJECTED", "address")
	}
	addr.ID = fmt.Sprintf("addr-%d", len(f.byUser[userID])+1)
	addr.UserID = userID
	f.byUser[userID] = append(f.byUser[userID], *addr)
	return addr, nil
}

type fakePhones struct {
	mu     sync.Mutex
	byUser map[string][]phone.Phone
}

func newFakePhones() *fakePhones {
	return &fakePhones{byUser: map[string][]phone.Phone{}}
}

func (f *fakePhones) ListPhones(_ context.Context, userID string) ([]phone.Phone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]phone.Phone{}, f.byUser[userID]...), nil
}

func (f *fakePhones) CreatePhone(
	_ context.Context,
	userID string,
	p *phone.Phone,
) (*phone.Phone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = fmt.Sprintf("phone-%d", len(f.byUser[userID])+1)
	p.UserID = userID
	f.byUser[userID] = append(f.byUser[userID], *p)
	return p, nil
}

type capturedEvent struct {
	Type string
	Data any
}

type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (p *capturePublisher) Publish(_ context.Context, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{Type: eventType, Data: data})
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var (
	roleUser  = role.Role{ID: "role-user", Name: role.NameUser}
	roleAdmin = role.Role{ID: "role-admin", Name: role.NameAdmin}
)

type fixture struct {
	svc       *Service
	repo      *fakeRepo
	roles     *fakeRoles
	addresses *fakeAddresses
	phones    *fakePhones
	published *capturePublisher
}

func newFixture(accounts config.AccountsConfig) *fixture {
	f := &fixture{
		repo:      newFakeRepo(),
		roles:     newFakeRoles(roleUser, roleAdmin),
		addresses: newFakeAddresses(),
		phones:    newFakePhones(),
		published: &capturePublisher{},
	}
	f.svc = NewService(Dependencies{
		Repo:      f.repo,
		Roles:     f.roles,
		Addresses: f.addresses,
		Phones:    f.phones,
		Hasher:    testutil.Hasher{},
		Clock:     testutil.Clock(),
		Events:    events.NewEmitter(f.published, nil),
		Accounts:  accounts,
	})
	return f
}

func newUser(username string) *User {
	return &User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "Sup3rSecret!",
		FirstName: "Ada",
		LastName:  "Lovelace",
		BirthDate: testutil.BirthDate(30, 0),
	}
}

func hasRole(u *User, name string) bool {
	return slices.ContainsFunc(u.Roles, func(r role.Role) bool { return r.Name == name })
}
