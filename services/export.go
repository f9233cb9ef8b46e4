package services

import "github.com/bellapacxx/retro-backend/models"

// ExportItem is one action item row for the external document exporter.
type ExportItem struct {
	Title    string `json:"title"`
	Status   string `json:"status"`
	Assigned bool   `json:"assigned"`
}

// ExportSummary is the tuple the document export service consumes.
// Formatting is external; this is data only.
type ExportSummary struct {
	Title     string       `json:"title"`
	TeamName  string       `json:"team_name"`
	CreatedAt int64        `json:"created_at"`
	Items     []ExportItem `json:"items"`
}

// Export returns the session summary used to produce the offline report.
func (s *SessionService) Export(sessionID string) (*ExportSummary, error) {
	session, err := getSession(s.DB, sessionID)
	if err != nil {
		return nil, err
	}

	var items []models.ActionItem
	if err := s.DB.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	summary := &ExportSummary{
		Title:     session.Title,
		TeamName:  session.TeamName,
		CreatedAt: session.CreatedAt,
		Items:     make([]ExportItem, 0, len(items)),
	}
	for _, item := range items {
		summary.Items = append(summary.Items, ExportItem{
			Title:    item.Title,
			Status:   item.Status,
			Assigned: item.OwnerID != "",
		})
	}
	return summary, nil
}
