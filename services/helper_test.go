package services

import (
	"path/filepath"
	"testing"

	"github.com/bellapacxx/retro-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Column{},
		&models.Card{},
		&models.Group{},
		&models.Vote{},
		&models.ActionItem{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

type testEnv struct {
	db       *gorm.DB
	users    *UserService
	sessions *SessionService
	cards    *CardService
	groups   *GroupService
	votes    *VoteService
	items    *ActionItemService
}

func newTestEnv(t *testing.T, tiers TierResolver) *testEnv {
	t.Helper()
	db := newTestDB(t)
	return &testEnv{
		db:       db,
		users:    NewUserService(db),
		sessions: NewSessionService(db, tiers, nil, 1, 5),
		cards:    NewCardService(db, tiers, nil, 5),
		groups:   NewGroupService(db, nil),
		votes:    NewVoteService(db, tiers, nil),
		items:    NewActionItemService(db, nil),
	}
}

func seedUser(t *testing.T, db *gorm.DB, name, tier string, anonymous bool) *models.User {
	t.Helper()
	user := &models.User{
		ID:               uuid.NewString(),
		Name:             name,
		IsAnonymous:      anonymous,
		SubscriptionTier: tier,
		CreatedAt:        1,
	}
	if !anonymous {
		user.Email = name + "@example.com"
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// seedSession creates a session for the facilitator and returns it with its
// columns.
func seedSession(t *testing.T, env *testEnv, facilitator *models.User, template string) (*models.Session, []models.Column) {
	t.Helper()
	session, err := env.sessions.Create(CreateSessionInput{
		Title:         "Sprint Retro",
		TeamName:      "Platform",
		FacilitatorID: facilitator.ID,
		TemplateType:  template,
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	var columns []models.Column
	if err := env.db.Where("session_id = ?", session.ID).Order(`"order" ASC`).Find(&columns).Error; err != nil {
		t.Fatalf("load columns: %v", err)
	}
	return session, columns
}

func setPhase(t *testing.T, env *testEnv, session *models.Session, userID, phase string) {
	t.Helper()
	if err := env.sessions.UpdatePhase(session.ID, userID, phase); err != nil {
		t.Fatalf("set phase %s: %v", phase, err)
	}
}
