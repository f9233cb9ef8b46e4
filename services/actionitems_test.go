package services

import (
	"errors"
	"testing"

	"github.com/bellapacxx/retro-backend/models"
)

func TestCreateActionItemFacilitatorOnly(t *testing.T) {
	env := newTestEnv(t, TierResolver{})
	facilitator := seedUser(t, env.db, "alice", models.TierPro, false)
	participant := seedUser(t, env.db, "carol", "", true)
	session, columns := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	card, err := env.cards.Create(session.ID, columns[0].ID, participant.ID, "fix the build")
	if err != nil {
		t.Fatal(err)
	}
	source := models.Target{Type: models.TargetCard, ID: card.ID}

	if _, err := env.items.Create(session.ID, participant.ID, source, "Fix CI", "", 0); !errors.Is(err, models.ErrNotFacilitator) {
		t.Errorf("participant create: err = %v, want ErrNotFacilitator", err)
	}

	item, err := env.items.Create(session.ID, facilitator.ID, source, "Fix CI", participant.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if item.Status != models.StatusOpen {
		t.Errorf("status = %q, want open", item.Status)
	}
}

func TestCreateActionItemInvalidSource(t *testing.T) {
	env := newTestEnv(t, TierResolver{})
	facilitator := seedUser(t, env.db, "alice", models.TierPro, false)
	session, _ := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	otherFacilitator := seedUser(t, env.db, "eve", models.TierPro, false)
	otherSession, otherColumns := seedSession(t, env, otherFacilitator, models.TemplateMadSadGlad)
	foreignCard, err := env.cards.Create(otherSession.ID, otherColumns[0].ID, otherFacilitator.ID, "elsewhere")
	if err != nil {
		t.Fatal(err)
	}

	_, err = env.items.Create(session.ID, facilitator.ID, models.Target{Type: models.TargetCard, ID: foreignCard.ID}, "X", "", 0)
	if !errors.Is(err, models.ErrInvalidTarget) {
		t.Errorf("foreign source: err = %v, want ErrInvalidTarget", err)
	}

	_, err = env.items.Create(session.ID, facilitator.ID, models.Target{Type: models.TargetCard, ID: "missing"}, "X", "", 0)
	if !errors.Is(err, models.ErrInvalidTarget) {
		t.Errorf("missing source: err = %v, want ErrInvalidTarget", err)
	}
}

func TestBulkCreateActionItems(t *testing.T) {
	env := newTestEnv(t, TierResolver{})
	facilitator := seedUser(t, env.db, "alice", models.TierPro, false)
	participant := seedUser(t, env.db, "carol", "", true)
	session, _ := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	suggestions := []Suggestion{
		{Title: "Automate deploys", Description: "one-click pipeline", Priority: "high", Category: "process"},
		{Title: "Pair more"},
	}

	if _, err := env.items.BulkCreate(session.ID, participant.ID, suggestions); !errors.Is(err, models.ErrNotFacilitator) {
		t.Errorf("participant bulk create: err = %v, want ErrNotFacilitator", err)
	}

	ids, err := env.items.BulkCreate(session.ID, facilitator.ID, suggestions)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Fatalf("created %d items, want 2", len(ids))
	}

	var first models.ActionItem
	env.db.First(&first, "id = ?", ids[0])
	if first.Title != "Automate deploys: one-click pipeline" {
		t.Errorf("synthesized title = %q", first.Title)
	}
	if first.SourceType != "" || first.SourceID != "" {
		t.Errorf("bulk items must have empty source, got %q/%q", first.SourceType, first.SourceID)
	}

	var second models.ActionItem
	env.db.First(&second, "id = ?", ids[1])
	if second.Title != "Pair more" {
		t.Errorf("title without description = %q, want bare title", second.Title)
	}
}

func TestUpdateActionItemPermissions(t *testing.T) {
	env := newTestEnv(t, TierResolver{})
	facilitator := seedUser(t, env.db, "alice", models.TierPro, false)
	owner := seedUser(t, env.db, "carol", "", true)
	bystander := seedUser(t, env.db, "dave", "", true)
	session, columns := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	card, err := env.cards.Create(session.ID, columns[0].ID, owner.ID, "note")
	if err != nil {
		t.Fatal(err)
	}
	// The bystander participates by contributing a card of their own.
	if _, err := env.cards.Create(session.ID, columns[0].ID, bystander.ID, "me too"); err != nil {
		t.Fatal(err)
	}
	item, err := env.items.Create(session.ID, facilitator.ID, models.Target{Type: models.TargetCard, ID: card.ID}, "Follow up", owner.ID, 0)
	if err != nil {
		t.Fatal(err)
	}

	// Status moves are open to any participant in the session.
	status := models.StatusInProgress
	if err := env.items.Update(item.ID, bystander.ID, ActionItemUpdate{Status: &status}); err != nil {
		t.Errorf("participant status update: %v", err)
	}

	// A user with no cards in the session is not a participant and cannot
	// even move status.
	outsider := seedUser(t, env.db, "eve", "", true)
	if err := env.items.Update(item.ID, outsider.ID, ActionItemUpdate{Status: &status}); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("outsider status update: err = %v, want ErrForbidden", err)
	}

	bad := "blocked"
	if err := env.items.Update(item.ID, owner.ID, ActionItemUpdate{Status: &bad}); !errors.Is(err, models.ErrInvalidStatus) {
		t.Errorf("invalid status: err = %v, want ErrInvalidStatus", err)
	}

	// Touching other fields requires facilitator or owner.
	title := "Rewritten"
	if err := env.items.Update(item.ID, bystander.ID, ActionItemUpdate{Title: &title}); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("bystander title update: err = %v, want ErrForbidden", err)
	}

	due := int64(1710086400000)
	if err := env.items.Update(item.ID, owner.ID, ActionItemUpdate{DueDate: &due}); err != nil {
		t.Errorf("owner due-date update: %v", err)
	}
	if err := env.items.Update(item.ID, facilitator.ID, ActionItemUpdate{Title: &title}); err != nil {
		t.Errorf("facilitator title update: %v", err)
	}

	var got models.ActionItem
	env.db.First(&got, "id = ?", item.ID)
	if got.Title != title || got.DueDate != due || got.Status != models.StatusInProgress {
		t.Errorf("item after updates = %+v", got)
	}
}

func TestDeleteActionItemFacilitatorOnly(t *testing.T) {
	env := newTestEnv(t, TierResolver{})
	facilitator := seedUser(t, env.db, "alice", models.TierPro, false)
	owner := seedUser(t, env.db, "carol", "", true)
	session, columns := seedSession(t, env, facilitator, models.TemplateMadSadGlad)

	card, err := env.cards.Create(session.ID, columns[0].ID, owner.ID, "note")
	if err != nil {
		t.Fatal(err)
	}
	item, err := env.items.Create(session.ID, facilitator.ID, models.Target{Type: models.TargetCard, ID: card.ID}, "Follow up", owner.ID, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := env.items.Delete(item.ID, owner.ID); !errors.Is(err, models.ErrNotFacilitator) {
		t.Errorf("owner delete: err = %v, want ErrNotFacilitator", err)
	}
	if err := env.items.Delete(item.ID, facilitator.ID); err != nil {
		t.Fatal(err)
	}
	if err := env.items.Delete(item.ID, facilitator.ID); !errors.Is(err, models.ErrActionItemNotFound) {
		t.Errorf("delete twice: err = %v, want ErrActionItemNotFound", err)
	}
}
