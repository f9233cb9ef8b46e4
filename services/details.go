package services

import "github.com/bellapacxx/retro-backend/models"

// AuthorInfo is the display info attached to cards in the read model.
type AuthorInfo struct {
	Name        string `json:"name"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type CardView struct {
	models.Card
	Author    *AuthorInfo `json:"author"`
	VoteCount int         `json:"vote_count"`
}

type GroupView struct {
	models.Group
	VoteCount int `json:"vote_count"`
}

// SessionDetails is the full read-side projection of a session. Vote counts
// are recomputed on every call; nothing here is a stored counter.
type SessionDetails struct {
	Session       models.Session      `json:"session"`
	Columns       []models.Column     `json:"columns"`
	Cards         []CardView          `json:"cards"`
	Groups        []GroupView         `json:"groups"`
	Votes         []models.Vote       `json:"votes"`
	ActionItems   []models.ActionItem `json:"action_items"`
	EffectiveTier string              `json:"effective_tier"`
}

// Details assembles the aggregate view of a session: ordered columns, cards
// enriched with author info and live vote counts, groups with vote counts,
// raw votes, action items, and the facilitator's effective tier.
func (s *SessionService) Details(sessionID string) (*SessionDetails, error) {
	session, err := getSession(s.DB, sessionID)
	if err != nil {
		return nil, err
	}

	details := &SessionDetails{Session: *session}

	if err := s.DB.Where("session_id = ?", sessionID).
		Order(`"order" ASC`).
		Find(&details.Columns).Error; err != nil {
		return nil, err
	}

	var cards []models.Card
	if err := s.DB.Where("session_id = ?", sessionID).Find(&cards).Error; err != nil {
		return nil, err
	}
	var groups []models.Group
	if err := s.DB.Where("session_id = ?", sessionID).Find(&groups).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("session_id = ?", sessionID).Find(&details.Votes).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("session_id = ?", sessionID).Find(&details.ActionItems).Error; err != nil {
		return nil, err
	}

	cardVotes := map[string]int{}
	groupVotes := map[string]int{}
	for _, v := range details.Votes {
		switch v.TargetType {
		case models.TargetCard:
			cardVotes[v.TargetID]++
		case models.TargetGroup:
			groupVotes[v.TargetID]++
		}
	}

	authors, err := s.loadAuthors(cards)
	if err != nil {
		return nil, err
	}

	details.Cards = make([]CardView, 0, len(cards))
	for _, card := range cards {
		view := CardView{Card: card, VoteCount: cardVotes[card.ID]}
		if a, ok := authors[card.AuthorID]; ok {
			view.Author = &AuthorInfo{Name: a.Name, IsAnonymous: a.IsAnonymous}
		}
		details.Cards = append(details.Cards, view)
	}

	details.Groups = make([]GroupView, 0, len(groups))
	for _, group := range groups {
		details.Groups = append(details.Groups, GroupView{Group: group, VoteCount: groupVotes[group.ID]})
	}

	facilitator, err := getUser(s.DB, session.FacilitatorID)
	if err != nil {
		return nil, err
	}
	details.EffectiveTier = s.Tiers.Effective(facilitator)

	return details, nil
}

func (s *SessionService) loadAuthors(cards []models.Card) (map[string]models.User, error) {
	seen := map[string]bool{}
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			ids = append(ids, c.AuthorID)
		}
	}

	authors := map[string]models.User{}
	if len(ids) == 0 {
		return authors, nil
	}
	var users []models.User
	if err := s.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		authors[u.ID] = u
	}
	return authors, nil
}
