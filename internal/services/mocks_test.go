package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"eventmanagement/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo implements domain.EventRepository for tests.
type fakeEventRepo struct {
	byID   map[int64]*domain.Event
	nextID int64
	err    error
	stats  *domain.EventStats
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[int64]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	e.ID = f.nextID
	f.nextID++
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Event
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) Search(ctx context.Context, filter domain.EventSearchFilter) ([]*domain.Event, error) {
	return f.List(ctx)
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) Stats(ctx context.Context, now time.Time) (*domain.EventStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.stats != nil {
		return f.stats, nil
	}
	return &domain.EventStats{TotalEvents: len(f.byID)}, nil
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	byEmail   map[string]*domain.User
	roles     map[string][]string // userID -> roleIDs
	nextID    int
	getErr    error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
		roles:   make(map[string][]string),
	}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	f.nextID++
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", f.nextID)
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) SetEmailConfirmed(ctx context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.EmailConfirmed = true
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	var out []*domain.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (f *fakeUserRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	f.roles[userID] = append(f.roles[userID], roleID)
	return nil
}

func (f *fakeUserRepo) RemoveRole(ctx context.Context, userID, roleID string) error {
	kept := f.roles[userID][:0]
	for _, id := range f.roles[userID] {
		if id != roleID {
			kept = append(kept, id)
		}
	}
	f.roles[userID] = kept
	return nil
}

// fakeSubscriptionRepo implements domain.SubscriptionRepository for tests.
type fakeSubscriptionRepo struct {
	subs        map[string]*domain.Subscription // "eventID/userID"
	nextID      int64
	createErr   error
	existsErr   error
	subscribers []*domain.Subscriber
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[string]*domain.Subscription), nextID: 1}
}

func subKey(eventID int64, userID string) string {
	return fmt.Sprintf("%d/%s", eventID, userID)
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	if f.createErr != nil {
		return f.createErr
	}
	key := subKey(sub.EventID, sub.UserID)
	if _, ok := f.subs[key]; ok {
		return domain.ErrAlreadySubscribed
	}
	sub.ID = f.nextID
	f.nextID++
	f.subs[key] = sub
	return nil
}

func (f *fakeSubscriptionRepo) Exists(ctx context.Context, eventID int64, userID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.subs[subKey(eventID, userID)]
	return ok, nil
}

func (f *fakeSubscriptionRepo) CountByEventID(ctx context.Context, eventID int64) (int, error) {
	n := 0
	for _, s := range f.subs {
		if s.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptionRepo) Delete(ctx context.Context, eventID int64, userID string) (bool, error) {
	key := subKey(eventID, userID)
	if _, ok := f.subs[key]; !ok {
		return false, nil
	}
	delete(f.subs, key)
	return true, nil
}

func (f *fakeSubscriptionRepo) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Subscription, error) {
	var out []*domain.Subscription
	for _, s := range f.subs {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) ListSubscribers(ctx context.Context, eventID int64) ([]*domain.Subscriber, error) {
	return f.subscribers, nil
}

// fakeRoleRepo implements domain.RoleRepository for tests.
type fakeRoleRepo struct {
	byCode    map[string]*domain.Role
	listByUID map[string][]*domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		byCode:    make(map[string]*domain.Role),
		listByUID: make(map[string][]*domain.Role),
	}
}

func (f *fakeRoleRepo) Create(ctx context.Context, code string) (*domain.Role, error) {
	if r, ok := f.byCode[code]; ok {
		return r, nil
	}
	r := domain.NewRole("role-"+code, code)
	f.byCode[code] = r
	return r, nil
}

func (f *fakeRoleRepo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	if r, ok := f.byCode[code]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	return f.listByUID[userID], nil
}

// fakeRolePermissionRepo implements domain.RolePermissionRepository for tests.
type fakeRolePermissionRepo struct {
	grants map[string][]string // roleID -> permissions
	all    map[string][]string // role code -> permissions, for ListAll
}

func newFakeRolePermissionRepo() *fakeRolePermissionRepo {
	return &fakeRolePermissionRepo{grants: make(map[string][]string)}
}

func (f *fakeRolePermissionRepo) Grant(ctx context.Context, roleID, permission string) error {
	for _, p := range f.grants[roleID] {
		if p == permission {
			return nil
		}
	}
	f.grants[roleID] = append(f.grants[roleID], permission)
	return nil
}

func (f *fakeRolePermissionRepo) Revoke(ctx context.Context, roleID, permission string) (bool, error) {
	kept := f.grants[roleID][:0]
	removed := false
	for _, p := range f.grants[roleID] {
		if p == permission {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	f.grants[roleID] = kept
	return removed, nil
}

func (f *fakeRolePermissionRepo) ListByRoleID(ctx context.Context, roleID string) ([]string, error) {
	return f.grants[roleID], nil
}

func (f *fakeRolePermissionRepo) ListAll(ctx context.Context) (map[string][]string, error) {
	return f.all, nil
}

// fakeConfirmationTokenRepo implements domain.ConfirmationTokenRepository for tests.
type fakeConfirmationTokenRepo struct {
	tokens map[string]string // tokenHash -> userID
}

func newFakeConfirmationTokenRepo() *fakeConfirmationTokenRepo {
	return &fakeConfirmationTokenRepo{tokens: make(map[string]string)}
}

func (f *fakeConfirmationTokenRepo) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	f.tokens[tokenHash] = userID
	return nil
}

func (f *fakeConfirmationTokenRepo) Consume(ctx context.Context, tokenHash string) (string, bool, error) {
	userID, ok := f.tokens[tokenHash]
	if !ok {
		return "", false, nil
	}
	delete(f.tokens, tokenHash)
	return userID, true, nil
}

// fakeCommentRepo implements domain.CommentRepository for tests.
type fakeCommentRepo struct {
	byID   map[int64]*domain.Comment
	nextID int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{byID: make(map[int64]*domain.Comment), nextID: 1}
}

func (f *fakeCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	c.ID = f.nextID
	f.nextID++
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCommentRepo) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for id := int64(1); id < f.nextID; id++ {
		if c, ok := f.byID[id]; ok && c.EventID == eventID {
			cp := *c
			cp.Replies = nil
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) SetHidden(ctx context.Context, id int64, hidden bool) error {
	c, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Hidden = hidden
	return nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakePublisher implements domain.ChangePublisher and records published changes.
type fakePublisher struct {
	published []domain.ChangeEvent
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, change domain.ChangeEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, change)
	return nil
}

// fakeHasher implements domain.PasswordHasher for tests.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hash:" + salt + ":" + password, nil
}
func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "hash:"+salt+":"+password {
		return domain.ErrForbidden
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}

// fakeEmailService implements domain.EmailService and records sends.
type fakeEmailService struct {
	sent []*domain.ConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendConfirmation(ctx context.Context, data *domain.ConfirmationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

// fakeAuthz implements domain.AuthzService with a static permission set per user.
type fakeAuthz struct {
	allowed map[string][]string // userID -> permissions
	err     error
}

func (f *fakeAuthz) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, p := range f.allowed[userID] {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAuthz) Grant(ctx context.Context, roleCode, permission string) error  { return nil }
func (f *fakeAuthz) Revoke(ctx context.Context, roleCode, permission string) error { return nil }
func (f *fakeAuthz) ListGrants(ctx context.Context) (map[string][]string, error)   { return nil, nil }
