package services

import (
	"testing"

	"github.com/linkup-app/backend/internal/models"
	"github.com/linkup-app/backend/internal/repositories"
	"github.com/linkup-app/backend/internal/testutil"
	"github.com/linkup-app/backend/pkg/apperrors"
)

type friendFixture struct {
	svc   *FriendService
	users repositories.UserRepository
}

func newFriendFixture(t *testing.T) *friendFixture {
	t.Helper()
	db := testutil.OpenTestDB(t)
	users := repositories.NewPostgresUserRepository(db)
	friendships := repositories.NewPostgresFriendshipRepository(db)
	notifications := repositories.NewPostgresNotificationRepository(db)
	return &friendFixture{
		svc:   NewFriendService(friendships, users, notifications),
		users: users,
	}
}

func (f *friendFixture) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	u := &models.User{FullName: name, Email: email, EmailConfirmed: true}
	if err := f.users.CreateUser(u); err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return u
}

// befriend runs the request/accept round trip.
func (f *friendFixture) befriend(t *testing.T, a, b *models.User) *models.Friendship {
	t.Helper()
	req, err := f.svc.SendRequest(a.ID, b.ID)
	if err != nil {
		t.Fatalf("SendRequest(%s, %s) failed: %v", a.FullName, b.FullName, err)
	}
	accepted, err := f.svc.AcceptRequest(req.ID, b.ID)
	if err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}
	return accepted
}

func assertCode(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	if got := apperrors.CodeOf(err); got != want {
		t.Fatalf("expected error code %s, got %s (%v)", want, got, err)
	}
}

func TestSendRequest_ToSelf(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")

	_, err := f.svc.SendRequest(alice.ID, alice.ID)
	assertCode(t, err, apperrors.CodeInvalidOperation)
}

func TestSendRequest_TargetMissing(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")

	_, err := f.svc.SendRequest(alice.ID, alice.ID+100)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestSendRequest_DuplicateEitherDirection(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")

	if _, err := f.svc.SendRequest(alice.ID, bob.ID); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	_, err := f.svc.SendRequest(alice.ID, bob.ID)
	assertCode(t, err, apperrors.CodeConflict)

	_, err = f.svc.SendRequest(bob.ID, alice.ID)
	assertCode(t, err, apperrors.CodeConflict)
}

func TestSendRequest_RejectedRowStillBlocks(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")

	req, err := f.svc.SendRequest(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := f.svc.RejectRequest(req.ID, bob.ID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	_, err = f.svc.SendRequest(alice.ID, bob.ID)
	assertCode(t, err, apperrors.CodeConflict)

	_, err = f.svc.SendRequest(bob.ID, alice.ID)
	assertCode(t, err, apperrors.CodeConflict)
}

func TestAcceptRequest_OnlyTargetMaySucceed(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")

	req, err := f.svc.SendRequest(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// The requester accepting their own request reads as not-found.
	_, err = f.svc.AcceptRequest(req.ID, alice.ID)
	assertCode(t, err, apperrors.CodeNotFound)

	accepted, err := f.svc.AcceptRequest(req.ID, bob.ID)
	if err != nil {
		t.Fatalf("accept by target failed: %v", err)
	}
	if accepted.Status != models.FriendshipStatusAccepted {
		t.Fatalf("expected status accepted, got %s", accepted.Status)
	}
	if accepted.AcceptedAt == nil {
		t.Fatal("expected accepted timestamp to be set")
	}

	for _, userID := range []uint{alice.ID, bob.ID} {
		friends, err := f.svc.ListFriends(userID)
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if len(friends) != 1 {
			t.Fatalf("expected 1 friend for user %d, got %d", userID, len(friends))
		}
	}
}

func TestAcceptRequest_AlreadyAccepted(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")

	accepted := f.befriend(t, alice, bob)

	_, err := f.svc.AcceptRequest(accepted.ID, bob.ID)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestCancelRequest_OnlyRequester(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")

	req, err := f.svc.SendRequest(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	err = f.svc.CancelRequest(req.ID, bob.ID)
	assertCode(t, err, apperrors.CodeNotFound)

	if err := f.svc.CancelRequest(req.ID, alice.ID); err != nil {
		t.Fatalf("cancel by requester failed: %v", err)
	}

	// Cancelling frees the pair for a new request.
	if _, err := f.svc.SendRequest(bob.ID, alice.ID); err != nil {
		t.Fatalf("request after cancel failed: %v", err)
	}
}

func TestUnfriend_RoundTrip(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")

	accepted := f.befriend(t, alice, bob)

	if err := f.svc.Unfriend(accepted.ID, alice.ID); err != nil {
		t.Fatalf("unfriend failed: %v", err)
	}

	for _, userID := range []uint{alice.ID, bob.ID} {
		friends, err := f.svc.ListFriends(userID)
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if len(friends) != 0 {
			t.Fatalf("expected no friends for user %d after unfriend, got %d", userID, len(friends))
		}
	}

	// The pair can start over.
	if _, err := f.svc.SendRequest(alice.ID, bob.ID); err != nil {
		t.Fatalf("request after unfriend failed: %v", err)
	}
}

func TestUnfriend_RequiresMembership(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	carol := f.createUser(t, "Carol", "carol@example.com")

	accepted := f.befriend(t, alice, bob)

	err := f.svc.Unfriend(accepted.ID, carol.ID)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestListPendingAndSent(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")

	if _, err := f.svc.SendRequest(alice.ID, bob.ID); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	pending, err := f.svc.ListPending(bob.ID)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].User.ID != alice.ID {
		t.Fatalf("expected bob's pending list to contain alice, got %+v", pending)
	}

	sent, err := f.svc.ListSent(alice.ID)
	if err != nil {
		t.Fatalf("ListSent failed: %v", err)
	}
	if len(sent) != 1 || sent[0].User.ID != bob.ID {
		t.Fatalf("expected alice's sent list to contain bob, got %+v", sent)
	}

	if pending, _ := f.svc.ListPending(alice.ID); len(pending) != 0 {
		t.Fatalf("expected no pending requests for alice, got %d", len(pending))
	}
}

func TestMutualFriendsCount_Symmetric(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	carol := f.createUser(t, "Carol", "carol@example.com")
	dave := f.createUser(t, "Dave", "dave@example.com")

	// carol and dave are friends with both alice and bob
	f.befriend(t, alice, carol)
	f.befriend(t, bob, carol)
	f.befriend(t, alice, dave)
	f.befriend(t, dave, bob)

	ab, err := f.svc.MutualFriendsCount(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("MutualFriendsCount failed: %v", err)
	}
	ba, err := f.svc.MutualFriendsCount(bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("MutualFriendsCount failed: %v", err)
	}

	if ab != 2 {
		t.Fatalf("expected 2 mutual friends, got %d", ab)
	}
	if ab != ba {
		t.Fatalf("mutual friends count not symmetric: %d vs %d", ab, ba)
	}
}

func TestListFriends_AnnotatesMutualCount(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	carol := f.createUser(t, "Carol", "carol@example.com")

	f.befriend(t, alice, bob)
	f.befriend(t, alice, carol)
	f.befriend(t, bob, carol)

	friends, err := f.svc.ListFriends(alice.ID)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if len(friends) != 2 {
		t.Fatalf("expected 2 friends, got %d", len(friends))
	}
	for _, fr := range friends {
		if fr.MutualFriendsCount != 1 {
			t.Fatalf("expected 1 mutual friend with %s, got %d", fr.User.FullName, fr.MutualFriendsCount)
		}
		if fr.FriendsSince.IsZero() {
			t.Fatal("expected friends-since date to be set")
		}
	}
}

func TestSuggestions_FriendsOfFriends(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	carol := f.createUser(t, "Carol", "carol@example.com")
	dave := f.createUser(t, "Dave", "dave@example.com")

	// alice - bob - carol chain; dave is unconnected
	f.befriend(t, alice, bob)
	f.befriend(t, bob, carol)

	suggestions, err := f.svc.Suggestions(alice.ID)
	if err != nil {
		t.Fatalf("Suggestions failed: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected exactly 1 suggestion, got %d", len(suggestions))
	}
	if suggestions[0].User.ID != carol.ID {
		t.Fatalf("expected carol to be suggested, got user %d", suggestions[0].User.ID)
	}
	if suggestions[0].MutualFriendsCount != 1 {
		t.Fatalf("expected 1 mutual friend for carol, got %d", suggestions[0].MutualFriendsCount)
	}
	_ = dave
}

func TestSuggestions_SuppressedByAnyRelationship(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	carol := f.createUser(t, "Carol", "carol@example.com")

	f.befriend(t, alice, bob)
	f.befriend(t, bob, carol)

	// A pending request from alice to carol removes her from suggestions.
	if _, err := f.svc.SendRequest(alice.ID, carol.ID); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	suggestions, err := f.svc.Suggestions(alice.ID)
	if err != nil {
		t.Fatalf("Suggestions failed: %v", err)
	}
	if len(suggestions) != 0 {
		t.Fatalf("expected no suggestions, got %d", len(suggestions))
	}
}

func TestSearch_RelationshipFlags(t *testing.T) {
	f := newFriendFixture(t)
	bob := f.createUser(t, "Bob", "bob@example.com")
	carol := f.createUser(t, "Carol", "carol@example.com")
	dan := f.createUser(t, "Dan", "dan@example.com")

	// carol has a pending request out to bob
	if _, err := f.svc.SendRequest(carol.ID, bob.ID); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	results, err := f.svc.Search("bob", carol.ID)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.User.ID != bob.ID {
		t.Fatalf("expected bob in results, got user %d", r.User.ID)
	}
	if !r.HasSentRequest {
		t.Fatal("expected has_sent_request to be true")
	}
	if r.IsFriend || r.HasPendingRequest {
		t.Fatalf("unexpected flags: %+v", r)
	}

	// From bob's side the same row reads as an incoming pending request.
	results, err = f.svc.Search("carol", bob.ID)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || !results[0].HasPendingRequest {
		t.Fatalf("expected carol with has_pending_request, got %+v", results)
	}

	_ = dan
}

func TestSearch_ExcludesSelfAndMatchesEmail(t *testing.T) {
	f := newFriendFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	f.createUser(t, "Alicia", "alicia@example.com")

	results, err := f.svc.Search("alic", alice.ID)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected only alicia (self excluded), got %d results", len(results))
	}
	if results[0].User.FullName != "Alicia" {
		t.Fatalf("expected Alicia, got %s", results[0].User.FullName)
	}
}
