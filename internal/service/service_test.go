package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rpl-backend/internal/model"
	"rpl-backend/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Application{},
		&model.IncomingUnit{},
		&model.Comment{},
		&model.Revision{},
		&model.Account{},
		&model.StoredFile{},
	))
	return db
}

// stubCatalog serves canned unit lookups; nil entries mean "unknown code".
type stubCatalog struct {
	units map[string]*model.UnitInfo
	err   error
}

func (s *stubCatalog) Lookup(_ context.Context, code string) (*model.UnitInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.units[code], nil
}

func (s *stubCatalog) IsValidUnitCode(ctx context.Context, code string) bool {
	info, err := s.Lookup(ctx, code)
	return err == nil && info != nil
}

type sentMail struct {
	Subject    string
	Recipients []string
	Body       string
}

// recordNotifier captures outgoing mail; safe for the async dispatch path.
type recordNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *recordNotifier) Send(_ context.Context, subject string, recipients []string, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{Subject: subject, Recipients: recipients, Body: body})
	return nil
}

func (n *recordNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *recordNotifier) snapshot() []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]sentMail, len(n.sent))
	copy(out, n.sent)
	return out
}

type broadcastEvent struct {
	ApplicationID string
	Status        string
}

type recordBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (b *recordBroadcaster) PublishApplicationUpdate(applicationID, status string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{ApplicationID: applicationID, Status: status})
}

func (b *recordBroadcaster) snapshot() []broadcastEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]broadcastEvent, len(b.events))
	copy(out, b.events)
	return out
}

// fixture wires a full application service over an in-memory database.
type fixture struct {
	db        *gorm.DB
	apps      repository.ApplicationRepository
	units     repository.IncomingUnitRepository
	comments  repository.CommentRepository
	revisions repository.RevisionRepository
	files     repository.FileRepository
	matcher   EquivalenceMatcher
	status    StatusEngine
	graph     RevisionGraph
	catalog   *stubCatalog
	mail      *recordNotifier
	hub       *recordBroadcaster
	svc       ApplicationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	f := &fixture{
		db:        db,
		apps:      repository.NewApplicationRepository(db),
		units:     repository.NewIncomingUnitRepository(db),
		comments:  repository.NewCommentRepository(db),
		revisions: repository.NewRevisionRepository(db),
		files:     repository.NewFileRepository(db),
		catalog:   &stubCatalog{units: map[string]*model.UnitInfo{}},
		mail:      &recordNotifier{},
		hub:       &recordBroadcaster{},
	}
	f.matcher = NewEquivalenceMatcher(f.apps)
	f.status = NewStatusEngine(f.apps, f.comments)
	f.graph = NewRevisionGraph(f.revisions)
	f.svc = NewApplicationService(
		f.apps, f.units, f.comments, f.files,
		repository.NewTransactionManager(db),
		f.matcher, f.status, f.graph,
		f.catalog, f.mail, f.hub,
	)
	return f
}

var errCatalogDown = errors.New("scraper unavailable")

// submitDTO builds a single-entry submission for the given UWA unit and
// external (institution, code) pairs.
func submitDTO(uwaCode string, externals ...[2]string) SubmitRequestDTO {
	entry := UnitEquivalenceDTO{UWA: UnitRefDTO{Code: uwaCode}}
	for _, ext := range externals {
		entry.OtherInstitutions = append(entry.OtherInstitutions, ext[0])
		entry.Others = append(entry.Others, ExternalUnitDTO{
			Code:         ext[1],
			Name:         "Intro Unit " + ext[1],
			ContactHours: 48,
		})
	}
	return SubmitRequestDTO{
		FirstName:      "Alex",
		LastName:       "Nguyen",
		EmailAddress:   "alex@student.uwa.edu.au",
		RequestedUnits: []UnitEquivalenceDTO{entry},
	}
}
