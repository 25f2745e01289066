package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"ai-counsellor/internal/llm"
	"ai-counsellor/internal/matching"
	"ai-counsellor/internal/model"
	"ai-counsellor/internal/repository"
	pkgerrors "ai-counsellor/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // key: user_id
	saves int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, userID string, profile model.StudentProfile, onboardingCompleted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Profile = profile
	u.OnboardingCompleted = onboardingCompleted
	return nil
}

func (m *mockUserRepo) SaveMatches(_ context.Context, userID string, groups []matching.CountryMatchGroup, mode string, expectedVersion *int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	if expectedVersion != nil && *expectedVersion != u.ProfileVersion {
		return 0, pkgerrors.ErrOptimisticLock
	}
	u.UniversityMatches = groups
	u.UniversityMode = mode
	u.ProfileVersion++
	m.saves++
	return u.ProfileVersion, nil
}

func (m *mockUserRepo) UpdateStage(_ context.Context, userID, stage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.ApplicationStage = stage
	return nil
}

// ── Mock ShortlistRepository ──

type mockShortlistRepo struct {
	items []model.ShortlistedUniversity
}

func (m *mockShortlistRepo) ListByUser(_ context.Context, userID string) ([]model.ShortlistedUniversity, error) {
	var out []model.ShortlistedUniversity
	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockShortlistRepo) GetByName(_ context.Context, userID, name string) (*model.ShortlistedUniversity, error) {
	for i := range m.items {
		if m.items[i].UserID == userID && m.items[i].Name == name {
			cp := m.items[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShortlistRepo) Create(_ context.Context, item *model.ShortlistedUniversity) error {
	item.ShortlistID = fmt.Sprintf("sl-%d", len(m.items)+1)
	m.items = append(m.items, *item)
	return nil
}

func (m *mockShortlistRepo) Delete(_ context.Context, userID, name string) error {
	out := m.items[:0]
	for _, it := range m.items {
		if it.UserID == userID && it.Name == name {
			continue
		}
		out = append(out, it)
	}
	m.items = out
	return nil
}

func (m *mockShortlistRepo) Lock(_ context.Context, userID, name string, deadline time.Time) error {
	for i := range m.items {
		if m.items[i].UserID == userID && m.items[i].Name == name {
			m.items[i].Locked = true
			d := deadline
			m.items[i].ApplicationDeadline = &d
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks []model.ApplicationTask
}

func (m *mockTaskRepo) ListByUser(_ context.Context, userID string) ([]model.ApplicationTask, error) {
	var out []model.ApplicationTask
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UniversityName != out[j].UniversityName {
			return out[i].UniversityName < out[j].UniversityName
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out, nil
}

func (m *mockTaskRepo) CountByUniversity(_ context.Context, userID, university string) (int64, error) {
	var n int64
	for _, t := range m.tasks {
		if t.UserID == userID && t.UniversityName == university {
			n++
		}
	}
	return n, nil
}

func (m *mockTaskRepo) GetByKey(_ context.Context, userID, university, taskKey string) (*model.ApplicationTask, error) {
	for i := range m.tasks {
		t := m.tasks[i]
		if t.UserID == userID && t.UniversityName == university && t.TaskKey == taskKey {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) ReplaceForUniversity(_ context.Context, userID, university string, tasks []model.ApplicationTask) error {
	out := m.tasks[:0]
	for _, t := range m.tasks {
		if t.UserID == userID && t.UniversityName == university {
			continue
		}
		out = append(out, t)
	}
	for i, t := range tasks {
		t.ID = fmt.Sprintf("%s-%s-%d", userID, university, i)
		out = append(out, t)
	}
	m.tasks = out
	return nil
}

func (m *mockTaskRepo) SetCompleted(_ context.Context, id string, completed bool) error {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Completed = completed
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock ChatRepository ──

type mockChatRepo struct {
	msgs []model.ChatMessage
}

func (m *mockChatRepo) Create(_ context.Context, msg *model.ChatMessage) error {
	msg.ID = fmt.Sprintf("chat-%d", len(m.msgs)+1)
	msg.CreatedAt = time.Now()
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *mockChatRepo) ListRecent(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	all, _ := m.ListAll(ctx, userID)
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (m *mockChatRepo) ListAll(_ context.Context, userID string) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, msg := range m.msgs {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// ── 测试聚合 ──

type mockRepos struct {
	user      *mockUserRepo
	shortlist *mockShortlistRepo
	task      *mockTaskRepo
	chat      *mockChatRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		user:      newMockUserRepo(),
		shortlist: &mockShortlistRepo{},
		task:      &mockTaskRepo{},
		chat:      &mockChatRepo{},
	}
	return &repository.Repository{
		User:      m.user,
		Shortlist: m.shortlist,
		Task:      m.task,
		Chat:      m.chat,
	}, m
}

// ── 外部依赖替身 ──

type fakeCompleter struct {
	reply    string
	err      error
	requests []llm.ChatRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeRecalculator struct {
	mu       sync.Mutex
	groups   []matching.CountryMatchGroup
	err      error
	calls    int
	profiles []matching.Profile
}

func (f *fakeRecalculator) Recalculate(_ context.Context, p matching.Profile) ([]matching.CountryMatchGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.profiles = append(f.profiles, p)
	if f.err != nil {
		return nil, f.err
	}
	return f.groups, nil
}

type fakeBlacklist struct {
	jti string
	ttl time.Duration
}

func (f *fakeBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	f.jti, f.ttl = jti, ttl
	return nil
}

func threeCountryGroups() []matching.CountryMatchGroup {
	return []matching.CountryMatchGroup{
		{Country: matching.CountryGermany, Universities: []matching.RankedUniversity{{Name: "RWTH Aachen University", Country: matching.CountryGermany, MatchScore: 70, Fit: matching.FitTarget}}},
		{Country: matching.CountryUnitedStates, Universities: []matching.RankedUniversity{{Name: "Stanford University", Country: matching.CountryUnitedStates, MatchScore: 40, Fit: matching.FitDream}}},
		{Country: matching.CountryUnitedKingdom, Universities: []matching.RankedUniversity{{Name: "University of Leeds", Country: matching.CountryUnitedKingdom, MatchScore: 60, Fit: matching.FitTarget}}},
	}
}
