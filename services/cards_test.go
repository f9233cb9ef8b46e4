package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bellapacxx/retro-backend/models"
)

func TestCreateCardPhaseGating(t *testing.T) {
	env := newTestEnv(t, TierResolver{})
	facilitator := seedUser(t, env.db, "alice", models.TierPro, false)
	session, columns := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	cases := []struct {
		phase string
		ok    bool
	}{
		{models.PhaseSetup, false},
		{models.PhaseCollecting, true},
		{models.PhaseGrouping, true},
		{models.PhaseVoting, false},
		{models.PhaseDiscussion, false},
		{models.PhaseCompleted, false},
	}
	for _, tc := range cases {
		setPhase(t, env, session, facilitator.ID, tc.phase)
		_, err := env.cards.Create(session.ID, columns[0].ID, facilitator.ID, "note in "+tc.phase)
		if tc.ok && err != nil {
			t.Errorf("phase %s: unexpected error %v", tc.phase, err)
		}
		if !tc.ok && !errors.Is(err, models.ErrPhaseViolation) {
			t.Errorf("phase %s: err = %v, want ErrPhaseViolation", tc.phase, err)
		}
	}
}

func TestCreateCardRejectsForeignColumn(t *testing.T) {
	env := newTestEnv(t, TierResolver{})
	facilitator := seedUser(t, env.db, "alice", models.TierPro, false)
	session, _ := seedSession(t, env, facilitator, models.TemplateMadSadGlad)
	_, otherColumns := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	_, err := env.cards.Create(session.ID, otherColumns[0].ID, facilitator.ID, "misplaced")
	if !errors.Is(err, models.ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
}

func TestCreateCardParticipantCap(t *testing.T) {
	env := newTestEnv(t, TierResolver{})
	facilitator := seedUser(t, env.db, "bob", models.TierFree, false)
	session, columns := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	authors := make([]*models.User, 5)
	for i := range authors {
		authors[i] = seedUser(t, env.db, fmt.Sprintf("author%d", i), "", true)
		if _, err := env.cards.Create(session.ID, columns[0].ID, authors[i].ID, "card"); err != nil {
			t.Fatalf("author %d: %v", i, err)
		}
	}

	sixth := seedUser(t, env.db, "author5", "", true)
	if _, err := env.cards.Create(session.ID, columns[0].ID, sixth.ID, "one too many"); !errors.Is(err, models.ErrParticipantLimit) {
		t.Errorf("sixth distinct author: err = %v, want ErrParticipantLimit", err)
	}

	// An existing author is free to keep adding cards.
	if _, err := env.cards.Create(session.ID, columns[0].ID, authors[0].ID, "another"); err != nil {
		t.Errorf("existing author: unexpected error %v", err)
	}

	count, err := env.sessions.ParticipantCount(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 5 {
		t.Errorf("participant count = %d, want 5", count)
	}

	join, err := env.sessions.CanJoin(session.ID, sixth.ID)
	if err != nil {
		t.Fatal(err)
	}
	if join.CanJoin {
		t.Error("CanJoin should refuse a sixth distinct author")
	}
	join, _ = env.sessions.CanJoin(session.ID, authors[0].ID)
	if !join.CanJoin {
		t.Error("CanJoin should accept an existing author")
	}
}

func TestCreateCardParticipantCapBypassedForPro(t *testing.T) {
	env := newTestEnv(t, TierResolver{})
	facilitator := seedUser(t, env.db, "alice", models.TierPro, false)
	session, columns := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	for i := 0; i < 7; i++ {
		author := seedUser(t, env.db, fmt.Sprintf("author%d", i), "", true)
		if _, err := env.cards.Create(session.ID, columns[0].ID, author.ID, "card"); err != nil {
			t.Fatalf("author %d: %v", i, err)
		}
	}
}

func TestCreateCardParticipantCapBypassedByOverride(t *testing.T) {
	env := newTestEnv(t, TierResolver{FullPermission: true})
	facilitator := seedUser(t, env.db, "bob", models.TierFree, false)
	session, columns := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	for i := 0; i < 7; i++ {
		author := seedUser(t, env.db, fmt.Sprintf("author%d", i), "", true)
		if _, err := env.cards.Create(session.ID, columns[0].ID, author.ID, "card"); err != nil {
			t.Fatalf("author %d: %v", i, err)
		}
	}
}

func TestUpdateCardAuthorOnly(t *testing.T) {
	env := newTestEnv(t, TierResolver{})
	facilitator := seedUser(t, env.db, "alice", models.TierPro, false)
	author := seedUser(t, env.db, "carol", "", true)
	session, columns := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	card, err := env.cards.Create(session.ID, columns[0].ID, author.ID, "draft")
	if err != nil {
		t.Fatal(err)
	}

	if err := env.cards.Update(card.ID, facilitator.ID, "hijacked"); !errors.Is(err, models.ErrNotAuthor) {
		t.Errorf("non-author edit: err = %v, want ErrNotAuthor", err)
	}
	if err := env.cards.Update(card.ID, author.ID, "final"); err != nil {
		t.Fatalf("author edit: %v", err)
	}

	setPhase(t, env, session, facilitator.ID, models.PhaseVoting)
	if err := env.cards.Update(card.ID, author.ID, "too late"); !errors.Is(err, models.ErrPhaseViolation) {
		t.Errorf("edit during voting: err = %v, want ErrPhaseViolation", err)
	}
}

func TestDeleteCardCascadesVotes(t *testing.T) {
	env := newTestEnv(t, TierResolver{})
	facilitator := seedUser(t, env.db, "alice", models.TierPro, false)
	author := seedUser(t, env.db, "carol", "", true)
	voter := seedUser(t, env.db, "dave", "", true)
	session, columns := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	card, err := env.cards.Create(session.ID, columns[0].ID, author.ID, "controversial")
	if err != nil {
		t.Fatal(err)
	}

	setPhase(t, env, session, facilitator.ID, models.PhaseVoting)
	if _, err := env.votes.Cast(session.ID, voter.ID, models.Target{Type: models.TargetCard, ID: card.ID}); err != nil {
		t.Fatal(err)
	}

	if err := env.cards.Delete(card.ID, voter.ID); !errors.Is(err, models.ErrNotAuthor) {
		t.Errorf("non-author delete: err = %v, want ErrNotAuthor", err)
	}
	if err := env.cards.Delete(card.ID, author.ID); err != nil {
		t.Fatal(err)
	}

	var votes int64
	env.db.Model(&models.Vote{}).Where("target_id = ?", card.ID).Count(&votes)
	if votes != 0 {
		t.Errorf("votes on deleted card = %d, want 0", votes)
	}
}

func TestMoveCardToGroup(t *testing.T) {
	env := newTestEnv(t, TierResolver{})
	facilitator := seedUser(t, env.db, "alice", models.TierPro, false)
	session, columns := seedSession(t, env, facilitator, models.TemplateMadSadGlad)
	otherSession, otherColumns := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	card, err := env.cards.Create(session.ID, columns[0].ID, facilitator.ID, "note")
	if err != nil {
		t.Fatal(err)
	}

	// Grouping is the only phase where cards move.
	if err := env.cards.MoveToGroup(card.ID, ""); !errors.Is(err, models.ErrPhaseViolation) {
		t.Errorf("move during collecting: err = %v, want ErrPhaseViolation", err)
	}

	setPhase(t, env, session, facilitator.ID, models.PhaseGrouping)
	setPhase(t, env, otherSession, facilitator.ID, models.PhaseGrouping)

	group, err := env.groups.Create(session.ID, columns[0].ID, facilitator.ID, "Theme")
	if err != nil {
		t.Fatal(err)
	}
	foreign, err := env.groups.Create(otherSession.ID, otherColumns[0].ID, facilitator.ID, "Elsewhere")
	if err != nil {
		t.Fatal(err)
	}

	if err := env.cards.MoveToGroup(card.ID, foreign.ID); !errors.Is(err, models.ErrInvalidTarget) {
		t.Errorf("cross-session group: err = %v, want ErrInvalidTarget", err)
	}
	if err := env.cards.MoveToGroup(card.ID, group.ID); err != nil {
		t.Fatal(err)
	}

	var got models.Card
	env.db.First(&got, "id = ?", card.ID)
	if got.GroupID != group.ID {
		t.Errorf("card group = %q, want %q", got.GroupID, group.ID)
	}

	if err := env.cards.MoveToGroup(card.ID, ""); err != nil {
		t.Fatal(err)
	}
	env.db.First(&got, "id = ?", card.ID)
	if got.GroupID != "" {
		t.Errorf("card group after ungroup = %q, want empty", got.GroupID)
	}
}
