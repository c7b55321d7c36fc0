package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iackson05/streakd/internal/metrics"
	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/repository"
)

// FeedWindow is how far back the feed reaches.
const FeedWindow = 24 * time.Hour

type FeedService struct {
	postRepo       repository.PostRepository
	friendshipRepo repository.FriendshipRepository
}

func NewFeedService(postRepo repository.PostRepository, friendshipRepo repository.FriendshipRepository) *FeedService {
	return &FeedService{
		postRepo:       postRepo,
		friendshipRepo: friendshipRepo,
	}
}

// Feed returns the posts of the caller and their accepted friends created
// within FeedWindow before now, newest first. Friends' posts on private
// goals are left out; the caller's own posts are always included.
func (s *FeedService) Feed(ctx context.Context, userID string, now time.Time) ([]*model.FeedPost, error) {
	friendIDs, err := s.friendshipRepo.AcceptedFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friends: %w", err)
	}

	authors := make([]string, 0, len(friendIDs)+1)
	authors = append(authors, userID)
	for _, id := range friendIDs {
		if id != userID {
			authors = append(authors, id)
		}
	}

	since := now.UTC().Add(-FeedWindow)

	posts, err := s.postRepo.Feed(ctx, authors, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed posts: %w", err)
	}

	visible := posts[:0]
	for _, p := range posts {
		if p.UserID == userID || p.GoalPrivacy != model.GoalPrivacyPrivate {
			visible = append(visible, p)
		}
	}

	metrics.FeedPosts.Observe(float64(len(visible)))
	return visible, nil
}

// GoalPosts returns every post of a goal, newest first. No friendship or
// privacy filter is applied.
func (s *FeedService) GoalPosts(ctx context.Context, goalID string) ([]*model.FeedPost, error) {
	posts, err := s.postRepo.ByGoal(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal posts: %w", err)
	}
	return posts, nil
}
