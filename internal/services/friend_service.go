package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/linkup-app/backend/internal/models"
	"github.com/linkup-app/backend/internal/repositories"
	"github.com/linkup-app/backend/pkg/apperrors"
	"github.com/linkup-app/backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	maxSuggestions   = 10
	maxSearchResults = 20
)

// FriendService owns the friend-request state machine and the derived
// queries (mutual friends, suggestions, annotated search). Every operation
// takes the acting user id explicitly; nothing reads ambient session state.
type FriendService struct {
	friendships   repositories.FriendshipRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
}

// NewFriendService creates a new FriendService
func NewFriendService(
	friendships repositories.FriendshipRepository,
	users repositories.UserRepository,
	notifications repositories.NotificationRepository,
) *FriendService {
	return &FriendService{
		friendships:   friendships,
		users:         users,
		notifications: notifications,
	}
}

// SendRequest creates a pending friend request from requesterID to targetID.
// Any existing row between the pair, in either direction and regardless of
// status, blocks a new request.
func (s *FriendService) SendRequest(requesterID, targetID uint) (*models.Friendship, error) {
	if requesterID == targetID {
		return nil, apperrors.New(apperrors.CodeInvalidOperation, "cannot send a friend request to yourself")
	}

	requester, err := s.users.GetUserByID(requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load requester")
	}

	if _, err := s.users.GetUserByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load target user")
	}

	_, err = s.friendships.GetBetween(requesterID, targetID)
	if err == nil {
		return nil, apperrors.New(apperrors.CodeConflict, "a friend request already exists or you are already friends")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to check existing friendship")
	}

	f := &models.Friendship{
		RequesterID: requesterID,
		TargetID:    targetID,
		Status:      models.FriendshipStatusPending,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.friendships.Create(f); err != nil {
		// Two requests for the same pair racing past the check above are
		// serialized by the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.CodeConflict, "a friend request already exists or you are already friends")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to create friend request")
	}

	s.notify(&models.Notification{
		Type:        models.NotificationTypeFriendRequest,
		ActorID:     requesterID,
		RecipientID: targetID,
		Message:     fmt.Sprintf("%s sent you a friend request", requester.FullName),
	})

	return f, nil
}

// AcceptRequest transitions a pending request to accepted. Only the target
// of the request may accept it; anyone else sees NotFound.
func (s *FriendService) AcceptRequest(friendshipID, actingUserID uint) (*models.Friendship, error) {
	f, err := s.pendingForTarget(friendshipID, actingUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	f.Status = models.FriendshipStatusAccepted
	f.AcceptedAt = &now
	if err := s.friendships.Save(f); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to accept friend request")
	}

	if acceptor, uerr := s.users.GetUserByID(actingUserID); uerr == nil {
		s.notify(&models.Notification{
			Type:        models.NotificationTypeFriendAccepted,
			ActorID:     actingUserID,
			RecipientID: f.RequesterID,
			Message:     fmt.Sprintf("%s accepted your friend request", acceptor.FullName),
		})
	}

	return f, nil
}

// RejectRequest transitions a pending request to rejected. The row is
// retained, which blocks the pair from re-requesting.
func (s *FriendService) RejectRequest(friendshipID, actingUserID uint) (*models.Friendship, error) {
	f, err := s.pendingForTarget(friendshipID, actingUserID)
	if err != nil {
		return nil, err
	}

	f.Status = models.FriendshipStatusRejected
	if err := s.friendships.Save(f); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to reject friend request")
	}
	return f, nil
}

// CancelRequest deletes a pending request. Only the requester may cancel.
func (s *FriendService) CancelRequest(friendshipID, actingUserID uint) error {
	f, err := s.friendships.GetByID(friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "friend request not found")
		}
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load friend request")
	}
	if f.RequesterID != actingUserID || f.Status != models.FriendshipStatusPending {
		return apperrors.New(apperrors.CodeNotFound, "friend request not found")
	}

	if err := s.friendships.Delete(f.ID); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to cancel friend request")
	}
	return nil
}

// Unfriend deletes the relationship row, whatever its status, as long as
// the acting user is one of its two sides. Deleting re-opens the pair for
// a fresh request.
func (s *FriendService) Unfriend(friendshipID, actingUserID uint) error {
	f, err := s.friendships.GetByID(friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "friendship not found")
		}
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load friendship")
	}
	if f.RequesterID != actingUserID && f.TargetID != actingUserID {
		return apperrors.New(apperrors.CodeNotFound, "friendship not found")
	}

	if err := s.friendships.Delete(f.ID); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to remove friendship")
	}
	return nil
}

// ListFriends returns all accepted friends of userID, each annotated with
// the mutual-friend count and the date the friendship started.
func (s *FriendService) ListFriends(userID uint) ([]models.FriendView, error) {
	rows, err := s.friendships.ListAcceptedFor(userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to list friends")
	}

	views := make([]models.FriendView, 0, len(rows))
	for i := range rows {
		f := &rows[i]
		other := f.Target
		if f.TargetID == userID {
			other = f.Requester
		}

		since := f.RequestedAt
		if f.AcceptedAt != nil {
			since = *f.AcceptedAt
		}

		mutual, err := s.MutualFriendsCount(userID, other.ID)
		if err != nil {
			return nil, err
		}

		views = append(views, models.FriendView{
			FriendshipID:       f.ID,
			User:               other.Public(),
			Status:             f.Status,
			FriendsSince:       since,
			MutualFriendsCount: mutual,
		})
	}
	return views, nil
}

// ListPending returns incoming pending requests for userID
func (s *FriendService) ListPending(userID uint) ([]models.FriendView, error) {
	rows, err := s.friendships.ListPendingIncoming(userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to list pending requests")
	}
	return s.requestViews(userID, rows, true)
}

// ListSent returns outgoing pending requests for userID
func (s *FriendService) ListSent(userID uint) ([]models.FriendView, error) {
	rows, err := s.friendships.ListPendingOutgoing(userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to list sent requests")
	}
	return s.requestViews(userID, rows, false)
}

func (s *FriendService) requestViews(userID uint, rows []models.Friendship, incoming bool) ([]models.FriendView, error) {
	views := make([]models.FriendView, 0, len(rows))
	for i := range rows {
		f := &rows[i]
		other := f.Target
		if incoming {
			other = f.Requester
		}

		mutual, err := s.MutualFriendsCount(userID, other.ID)
		if err != nil {
			return nil, err
		}

		views = append(views, models.FriendView{
			FriendshipID:       f.ID,
			User:               other.Public(),
			Status:             f.Status,
			FriendsSince:       f.RequestedAt,
			MutualFriendsCount: mutual,
		})
	}
	return views, nil
}

// MutualFriendsCount returns the size of the intersection of the two
// users' accepted-friend id sets. Symmetric in its arguments.
func (s *FriendService) MutualFriendsCount(a, b uint) (int, error) {
	aFriends, err := s.friendships.AcceptedFriendIDs(a)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load friend ids")
	}
	bFriends, err := s.friendships.AcceptedFriendIDs(b)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load friend ids")
	}

	inA := make(map[uint]bool, len(aFriends))
	for _, id := range aFriends {
		inA[id] = true
	}
	count := 0
	for _, id := range bFriends {
		if inA[id] {
			count++
		}
	}
	return count, nil
}

// Suggestions returns up to 10 friends-of-friends of userID. A candidate
// with any existing relationship row to userID (pending, rejected or
// blocked included) is suppressed.
func (s *FriendService) Suggestions(userID uint) ([]models.UserSearchResult, error) {
	friendIDs, err := s.friendships.AcceptedFriendIDs(userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load friend ids")
	}

	seen := map[uint]bool{userID: true}
	for _, id := range friendIDs {
		seen[id] = true
	}

	results := make([]models.UserSearchResult, 0, maxSuggestions)
	for _, friendID := range friendIDs {
		fof, err := s.friendships.AcceptedFriendIDs(friendID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load friend ids")
		}
		for _, candidateID := range fof {
			if seen[candidateID] {
				continue
			}
			seen[candidateID] = true

			// Any relationship row at all disqualifies the candidate.
			_, err := s.friendships.GetBetween(userID, candidateID)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to check relationship")
			}

			candidate, err := s.users.GetUserByID(candidateID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load suggested user")
			}

			mutual, err := s.MutualFriendsCount(userID, candidateID)
			if err != nil {
				return nil, err
			}

			results = append(results, models.UserSearchResult{
				User:               candidate.Public(),
				MutualFriendsCount: mutual,
			})
			if len(results) >= maxSuggestions {
				return results, nil
			}
		}
	}
	return results, nil
}

// Search finds users by name or email substring, excluding the searching
// user, each annotated with the relationship flags relative to them.
func (s *FriendService) Search(query string, actingUserID uint) ([]models.UserSearchResult, error) {
	if query == "" {
		return []models.UserSearchResult{}, nil
	}

	users, err := s.users.SearchUsers(query, actingUserID, maxSearchResults)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to search users")
	}

	results := make([]models.UserSearchResult, 0, len(users))
	for i := range users {
		u := &users[i]

		isFriend, err := s.friendships.AreFriends(actingUserID, u.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to check friendship")
		}
		hasPending, err := s.friendships.HasPendingFrom(u.ID, actingUserID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to check pending request")
		}
		hasSent, err := s.friendships.HasPendingFrom(actingUserID, u.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to check sent request")
		}
		mutual, err := s.MutualFriendsCount(actingUserID, u.ID)
		if err != nil {
			return nil, err
		}

		results = append(results, models.UserSearchResult{
			User:               u.Public(),
			IsFriend:           isFriend,
			HasPendingRequest:  hasPending,
			HasSentRequest:     hasSent,
			MutualFriendsCount: mutual,
		})
	}
	return results, nil
}

func (s *FriendService) pendingForTarget(friendshipID, actingUserID uint) (*models.Friendship, error) {
	f, err := s.friendships.GetByID(friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "friend request not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load friend request")
	}
	if f.TargetID != actingUserID || f.Status != models.FriendshipStatusPending {
		return nil, apperrors.New(apperrors.CodeNotFound, "friend request not found")
	}
	return f, nil
}

// Notifications are best effort; a failed insert never fails the operation
// that produced it.
func (s *FriendService) notify(n *models.Notification) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Create(n); err != nil {
		logger.Warn("failed to create notification", "type", n.Type, "recipient_id", n.RecipientID, "error", err)
	}
}
