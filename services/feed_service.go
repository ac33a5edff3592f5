// services/feed_service.go - Team activity feed with live subscriptions
package services

import (
	"sync"
	"time"

	"devstory/models"

	"gorm.io/gorm"
)

// FeedReplayLimit caps how many entries a reader or new subscriber receives.
const FeedReplayLimit = 20

// FeedService owns the append-only per-team activity log and an in-process
// publish/subscribe hub for live consumers. Appends are independent writes;
// callers decide whether an append failure matters.
type FeedService struct {
	db *gorm.DB

	mu   sync.RWMutex
	subs map[uint]map[chan models.ActivityLog]struct{}
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{
		db:   db,
		subs: make(map[uint]map[chan models.ActivityLog]struct{}),
	}
}

// Append writes an immutable entry to a team's feed and publishes it to live
// subscribers.
func (s *FeedService) Append(teamID uint, logType models.LogType, userID uint, userName, message string) error {
	entry := models.ActivityLog{
		TeamID:    teamID,
		Message:   message,
		Type:      logType,
		UserID:    userID,
		UserName:  userName,
		Timestamp: time.Now(),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return err
	}

	s.publish(entry)
	return nil
}

// Recent returns up to limit entries for a team, newest first. A limit of 0
// (or anything above the cap) is clamped to FeedReplayLimit.
func (s *FeedService) Recent(teamID uint, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > FeedReplayLimit {
		limit = FeedReplayLimit
	}

	var entries []models.ActivityLog
	err := s.db.Where("team_id = ?", teamID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error

	return entries, err
}

// Subscribe registers a live consumer for one team's feed. The returned
// channel first replays the most recent entries (newest first), then carries
// live entries as they are appended. The cancel function stops delivery; no
// entry is sent after it returns. Slow consumers drop entries rather than
// block writers.
func (s *FeedService) Subscribe(teamID uint) (<-chan models.ActivityLog, func(), error) {
	replay, err := s.Recent(teamID, FeedReplayLimit)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan models.ActivityLog, FeedReplayLimit+16)
	for _, entry := range replay {
		ch <- entry
	}

	s.mu.Lock()
	if s.subs[teamID] == nil {
		s.subs[teamID] = make(map[chan models.ActivityLog]struct{})
	}
	s.subs[teamID][ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if set, ok := s.subs[teamID]; ok {
			if _, registered := set[ch]; registered {
				delete(set, ch)
				close(ch)
				if len(set) == 0 {
					delete(s.subs, teamID)
				}
			}
		}
	}

	return ch, cancel, nil
}

func (s *FeedService) publish(entry models.ActivityLog) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.subs[entry.TeamID] {
		select {
		case ch <- entry:
		default:
			// Subscriber is not keeping up; drop rather than block
		}
	}
}
