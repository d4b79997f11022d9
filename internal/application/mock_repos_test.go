package application

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/campus-events/internal/domain/entity"
	repo "github.com/oksasatya/campus-events/internal/domain/repository"
	"github.com/oksasatya/campus-events/pkg/mailer"
)

// memStore is an in-memory stand-in for the database shared by the fake
// repositories below. It applies the same capacity and uniqueness rules.
type memStore struct {
	mu       sync.Mutex
	events   map[int64]*entity.Event
	regs     []*entity.Registration
	profiles map[string]*entity.StudentProfile
	users    map[string]*entity.User
	nextID   int64
	failList error
}

func newMemStore() *memStore {
	return &memStore{
		events:   map[int64]*entity.Event{},
		profiles: map[string]*entity.StudentProfile{},
		users:    map[string]*entity.User{},
	}
}

func (s *memStore) addEvent(e entity.Event) *entity.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		s.nextID++
		e.ID = s.nextID
	} else if e.ID > s.nextID {
		s.nextID = e.ID
	}
	if e.Date.IsZero() {
		e.Date = time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(e.ID) * time.Hour)
	}
	cp := e
	s.events[e.ID] = &cp
	return &cp
}

func (s *memStore) addUser(u entity.User) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := u
	s.users[u.ID] = &cp
	return &cp
}

func (s *memStore) addRegistration(userID string, eventID int64, token string) *entity.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &entity.Registration{ID: int64(len(s.regs) + 1), UserID: userID, EventID: eventID, Token: token, CreatedAt: time.Now().UTC()}
	s.regs = append(s.regs, r)
	return r
}

func (s *memStore) countFor(eventID int64) int {
	n := 0
	for _, r := range s.regs {
		if r.EventID == eventID {
			n++
		}
	}
	return n
}

func (s *memStore) eventCopy(id int64) entity.Event {
	e := *s.events[id]
	e.RegisteredCount = s.countFor(id)
	return e
}

type memEvents struct{ *memStore }

func (m memEvents) Create(_ context.Context, e *entity.Event) error {
	created := m.addEvent(*e)
	e.ID = created.ID
	e.CreatedAt = time.Now().UTC()
	return nil
}

func (m memEvents) GetByID(_ context.Context, id int64) (*entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return nil, repo.ErrNotFound
	}
	e := m.eventCopy(id)
	return &e, nil
}

func (m memEvents) sorted(keep func(*entity.Event) bool) []entity.Event {
	var out []entity.Event
	for id, e := range m.events {
		if keep(e) {
			out = append(out, m.eventCopy(id))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (m memEvents) List(_ context.Context, f entity.EventFilter) ([]entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	q := strings.ToLower(strings.TrimSpace(f.Title))
	return m.sorted(func(e *entity.Event) bool {
		if q != "" && !strings.Contains(strings.ToLower(e.Title), q) {
			return false
		}
		return f.Category == "" || e.Category == f.Category
	}), nil
}

func (m memEvents) ListByIDs(_ context.Context, ids []int64) ([]entity.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return m.sorted(func(e *entity.Event) bool { return want[e.ID] }), nil
}

func (m memEvents) CategoryCounts(context.Context) (map[entity.Category]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[entity.Category]int{}
	for _, e := range m.events {
		out[e.Category]++
	}
	return out, nil
}

func (m memEvents) Stats(context.Context) (entity.CatalogStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s entity.CatalogStats
	for _, e := range m.events {
		s.TotalEvents++
		s.TotalCapacity += e.Capacity
	}
	for _, r := range m.regs {
		s.TotalRegistrations++
		if r.Attended {
			s.TotalAttended++
		}
	}
	return s, nil
}

type memProfiles struct{ *memStore }

func (m memProfiles) GetByUserID(_ context.Context, userID string) (*entity.StudentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type memRegs struct{ *memStore }

func (m memRegs) Exists(_ context.Context, userID string, eventID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.regs {
		if r.UserID == userID && r.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (m memRegs) insert(reg *entity.Registration) error {
	e, ok := m.events[reg.EventID]
	if !ok {
		return repo.ErrNotFound
	}
	if m.countFor(reg.EventID) >= e.Capacity {
		return repo.ErrEventFull
	}
	for _, r := range m.regs {
		if r.UserID == reg.UserID && r.EventID == reg.EventID {
			return repo.ErrAlreadyRegistered
		}
	}
	reg.ID = int64(len(m.regs) + 1)
	reg.CreatedAt = time.Now().UTC()
	cp := *reg
	m.regs = append(m.regs, &cp)
	return nil
}

func (m memRegs) Create(_ context.Context, reg *entity.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(reg)
}

func (m memRegs) CreateWithProfile(_ context.Context, p *entity.StudentProfile, reg *entity.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for uid, other := range m.profiles {
		if uid != p.UserID && p.RegistrationNumber != "" && other.RegistrationNumber == p.RegistrationNumber {
			return repo.ErrDuplicateRegistrationNumber
		}
	}
	if err := m.insert(reg); err != nil {
		return err
	}
	cp := *p
	m.profiles[p.UserID] = &cp
	return nil
}

func (m memRegs) detail(r *entity.Registration) entity.RegistrationDetail {
	d := entity.RegistrationDetail{Registration: *r, Event: m.eventCopy(r.EventID)}
	if u, ok := m.users[r.UserID]; ok {
		d.Username, d.UserEmail = u.Username, u.Email
	}
	if p, ok := m.profiles[r.UserID]; ok {
		cp := *p
		d.Profile = &cp
	}
	if r.VerifiedBy != nil {
		if v, ok := m.users[*r.VerifiedBy]; ok {
			d.VerifiedByUsername = v.Username
		}
	}
	return d
}

func (m memRegs) GetByToken(_ context.Context, token string) (*entity.RegistrationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.regs {
		if r.Token == token {
			d := m.detail(r)
			return &d, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m memRegs) GetByTokenForUser(_ context.Context, token, userID string) (*entity.RegistrationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.regs {
		if r.Token == token && r.UserID == userID {
			d := m.detail(r)
			return &d, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m memRegs) ListByUser(_ context.Context, userID string) ([]entity.RegistrationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.RegistrationDetail
	for _, r := range m.regs {
		if r.UserID == userID {
			out = append(out, m.detail(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Event.Date.Before(out[j].Event.Date) })
	return out, nil
}

func (m memRegs) ListAll(context.Context) ([]entity.RegistrationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.RegistrationDetail, 0, len(m.regs))
	for _, r := range m.regs {
		out = append(out, m.detail(r))
	}
	return out, nil
}

func (m memRegs) MarkAttended(_ context.Context, token, staffID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.regs {
		if r.Token == token {
			if r.Attended {
				return false, nil
			}
			r.Attended = true
			t := at
			r.VerifiedAt = &t
			sid := staffID
			r.VerifiedBy = &sid
			return true, nil
		}
	}
	return false, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
	seq   int
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return repo.ErrUsernameTaken
		}
	}
	m.seq++
	u.ID = "00000000-0000-4000-8000-" + leftPad(m.seq)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func leftPad(n int) string {
	s := strconv.Itoa(n)
	return strings.Repeat("0", 12-len(s)) + s
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) SetStaff(_ context.Context, username string, staff bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			u.IsStaff = staff
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

// fakeNotifier records published jobs.
type fakeNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (n *fakeNotifier) PublishJSON(_ context.Context, body any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	if job, ok := body.(mailer.EmailJob); ok {
		n.jobs = append(n.jobs, job)
	}
	return nil
}

func (n *fakeNotifier) sent() []mailer.EmailJob {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]mailer.EmailJob(nil), n.jobs...)
}

type fakeSearch struct {
	ids     []int64
	err     error
	indexed []int64
}

func (f *fakeSearch) SearchIDs(context.Context, entity.EventFilter) ([]int64, error) {
	return f.ids, f.err
}

func (f *fakeSearch) Index(_ context.Context, e *entity.Event) error {
	f.indexed = append(f.indexed, e.ID)
	return nil
}

var errBoom = errors.New("boom")
