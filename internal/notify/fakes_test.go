package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"date-journal-backend/internal/models"
	"date-journal-backend/internal/push"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fakeTokens struct {
	mu      sync.Mutex
	byUser  map[models.Identity][]string
	deleted []string
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byUser: map[models.Identity][]string{
		models.Simran: {"simran-phone"},
		models.Ayaan:  {"ayaan-phone", "ayaan-tablet"},
	}}
}

func (f *fakeTokens) ListByUser(_ context.Context, user models.Identity) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.byUser[user]...), nil
}

func (f *fakeTokens) ListAll(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []string
	for _, id := range models.Identities {
		all = append(all, f.byUser[id]...)
	}
	return all, nil
}

func (f *fakeTokens) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, token)
	for id, tokens := range f.byUser {
		kept := tokens[:0]
		for _, t := range tokens {
			if t != token {
				kept = append(kept, t)
			}
		}
		f.byUser[id] = kept
	}
	return nil
}

type fakeSender struct {
	mu           sync.Mutex
	calls        []push.Message
	err          error
	failing      map[string]bool
	unregistered map[string]bool
}

func (f *fakeSender) SendMulticast(_ context.Context, msg push.Message) (*push.BatchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, msg)
	if f.err != nil {
		return nil, f.err
	}
	res := &push.BatchResponse{}
	for _, token := range msg.Tokens {
		switch {
		case f.unregistered[token]:
			res.Add(push.SendResponse{Token: token, Error: errors.New("unregistered"), Unregistered: true})
		case f.failing[token]:
			res.Add(push.SendResponse{Token: token, Error: errors.New("rejected")})
		default:
			res.Add(push.SendResponse{Token: token, Success: true, MessageID: "m-" + token})
		}
	}
	return res, nil
}

func (f *fakeSender) Calls() []push.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]push.Message{}, f.calls...)
}

type fakeLedger struct {
	mu        sync.Mutex
	records   map[string]*models.SentNotification
	deleteErr map[string]error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: map[string]*models.SentNotification{}, deleteErr: map[string]error{}}
}

func (f *fakeLedger) HasFired(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[key]
	return ok, nil
}

func (f *fakeLedger) Claim(_ context.Context, rec *models.SentNotification) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[rec.Key]; ok {
		return false, nil
	}
	f.records[rec.Key] = rec
	return true, nil
}

func (f *fakeLedger) Release(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, key)
	return nil
}

func (f *fakeLedger) ListSentBefore(_ context.Context, cutoff time.Time) ([]*models.SentNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SentNotification
	for _, rec := range f.records {
		if rec.SentAt.Before(cutoff) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeLedger) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[key]; err != nil {
		return err
	}
	delete(f.records, key)
	return nil
}

func (f *fakeLedger) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeMilestones struct {
	mu     sync.Mutex
	byType map[string]*models.Milestone
}

func newFakeMilestones() *fakeMilestones {
	return &fakeMilestones{byType: map[string]*models.Milestone{}}
}

func (f *fakeMilestones) Claim(_ context.Context, m *models.Milestone) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byType[m.Type]; ok {
		return false, nil
	}
	f.byType[m.Type] = m
	return true, nil
}

func (f *fakeMilestones) Release(_ context.Context, milestoneType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byType, milestoneType)
	return nil
}

func (f *fakeMilestones) Types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var types []string
	for t := range f.byType {
		types = append(types, t)
	}
	return types
}

type fakeDates struct {
	mu    sync.Mutex
	dates []*models.DateEvent
}

func (f *fakeDates) List(_ context.Context) ([]*models.DateEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.DateEvent{}, f.dates...), nil
}

func (f *fakeDates) ListBetween(_ context.Context, from, to time.Time) ([]*models.DateEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.DateEvent
	for _, d := range f.dates {
		if d.Date.After(from) && !d.Date.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDates) Add(d *models.DateEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = append(f.dates, d)
}

type harness struct {
	engine     *Engine
	dates      *fakeDates
	ledger     *fakeLedger
	milestones *fakeMilestones
	tokens     *fakeTokens
	sender     *fakeSender
}

func newHarness() *harness {
	h := &harness{
		dates:      &fakeDates{},
		ledger:     newFakeLedger(),
		milestones: newFakeMilestones(),
		tokens:     newFakeTokens(),
		sender:     &fakeSender{},
	}
	h.engine = NewEngine(h.dates, h.ledger, h.milestones,
		NewResolver(h.tokens), NewDispatcher(h.sender, nil),
		Options{
			// 50 days together matches no threshold
			Anniversary:  testNow.AddDate(0, 0, -50),
			ReminderLead: 2 * time.Hour,
			Retention:    7 * 24 * time.Hour,
			Now:          func() time.Time { return testNow },
		})
	return h
}

func testDate(id string, at time.Time) *models.DateEvent {
	return &models.DateEvent{
		ID:         id,
		Title:      "Date " + id,
		Date:       at,
		Rating:     3,
		CreatedBy:  models.Simran,
		CreatedAt:  testNow.Add(-24 * time.Hour),
		Comments:   []models.Comment{},
		VoiceNotes: []models.VoiceNote{},
		Photos:     []models.Photo{},
	}
}
