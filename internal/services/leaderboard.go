package services

import (
	"context"

	"sevasetu/internal/models"
)

type LeaderboardEntry struct {
	Name   string `json:"name"`
	City   string `json:"city"`
	State  string `json:"state"`
	Points int    `json:"points"`
}

// Leaderboard returns the top volunteers by points. Ties keep signup order.
func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	entries := []LeaderboardEntry{}
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("name", "city", "state", "points").
		Where("role = ?", models.RoleVolunteer).
		Order("points DESC, id ASC").
		Limit(LeaderboardSize).
		Scan(&entries).Error
	if err != nil {
		return nil, internal("could not load leaderboard", err)
	}
	return entries, nil
}

func (s *Service) publishLeaderboard(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	entries, err := s.Leaderboard(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("could not refresh leaderboard for subscribers")
		return
	}
	s.publisher.PublishLeaderboard(entries)
}
