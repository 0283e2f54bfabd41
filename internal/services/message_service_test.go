package services

import (
	"strings"
	"testing"
	"time"

	"github.com/linkup-app/backend/internal/models"
	"github.com/linkup-app/backend/internal/repositories"
	"github.com/linkup-app/backend/internal/testutil"
	"github.com/linkup-app/backend/pkg/apperrors"
)

type messageFixture struct {
	svc     *MessageService
	friends *FriendService
	users   repositories.UserRepository
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	db := testutil.OpenTestDB(t)
	users := repositories.NewPostgresUserRepository(db)
	friendships := repositories.NewPostgresFriendshipRepository(db)
	messages := repositories.NewPostgresMessageRepository(db)
	notifications := repositories.NewPostgresNotificationRepository(db)
	return &messageFixture{
		svc:     NewMessageService(messages, friendships, users),
		friends: NewFriendService(friendships, users, notifications),
		users:   users,
	}
}

func (f *messageFixture) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	u := &models.User{FullName: name, Email: email, EmailConfirmed: true}
	if err := f.users.CreateUser(u); err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return u
}

func (f *messageFixture) befriend(t *testing.T, a, b *models.User) {
	t.Helper()
	req, err := f.friends.SendRequest(a.ID, b.ID)
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	if _, err := f.friends.AcceptRequest(req.ID, b.ID); err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}
}

func TestSend_RequiresAcceptedFriendship(t *testing.T) {
	f := newMessageFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")

	_, err := f.svc.Send(alice.ID, bob.ID, "hi")
	assertCode(t, err, apperrors.CodeForbidden)

	// A pending request is not enough.
	if _, err := f.friends.SendRequest(alice.ID, bob.ID); err != nil {
		t.Fatalf("friend request failed: %v", err)
	}
	_, err = f.svc.Send(alice.ID, bob.ID, "hi")
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestSend_SucceedsBetweenFriends(t *testing.T) {
	f := newMessageFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	f.befriend(t, alice, bob)

	m, err := f.svc.Send(alice.ID, bob.ID, "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if m.IsRead {
		t.Fatal("new message must start unread")
	}
	if m.SentAt.IsZero() {
		t.Fatal("sent timestamp not set")
	}
}

func TestSend_ContentValidation(t *testing.T) {
	f := newMessageFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	f.befriend(t, alice, bob)

	tests := []struct {
		name    string
		content string
		wantErr bool
		want    string
	}{
		{name: "empty", content: "", wantErr: true},
		{name: "whitespace only", content: "   \t\n", wantErr: true},
		{name: "script tag only", content: "<script>alert(1)</script>", wantErr: true},
		{name: "html stripped", content: "<b>hello</b>", want: "hello"},
		{name: "trimmed", content: "  hi there  ", want: "hi there"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := f.svc.Send(alice.ID, bob.ID, tt.content)
			if tt.wantErr {
				assertCode(t, err, apperrors.CodeInvalidInput)
				return
			}
			if err != nil {
				t.Fatalf("Send failed: %v", err)
			}
			if m.Content != tt.want {
				t.Fatalf("expected content %q, got %q", tt.want, m.Content)
			}
		})
	}
}

func TestOpenConversation_RequiresFriendship(t *testing.T) {
	f := newMessageFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")

	_, err := f.svc.OpenConversation(alice.ID, bob.ID)
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestOpenConversation_MarksReadIdempotently(t *testing.T) {
	f := newMessageFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	f.befriend(t, alice, bob)

	if _, err := f.svc.Send(alice.ID, bob.ID, "hi"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := f.svc.Send(alice.ID, bob.ID, "you there?"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	unread, err := f.svc.UnreadCount(bob.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if unread != 2 {
		t.Fatalf("expected 2 unread before opening, got %d", unread)
	}

	chat, err := f.svc.OpenConversation(bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("OpenConversation failed: %v", err)
	}
	for _, m := range chat.Messages {
		if !m.IsRead {
			t.Fatalf("message %d still unread after opening", m.ID)
		}
	}

	unread, err = f.svc.UnreadCount(bob.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected 0 unread after opening, got %d", unread)
	}

	// Opening again changes nothing.
	if _, err := f.svc.OpenConversation(bob.ID, alice.ID); err != nil {
		t.Fatalf("second OpenConversation failed: %v", err)
	}
	unread, _ = f.svc.UnreadCount(bob.ID)
	if unread != 0 {
		t.Fatalf("expected 0 unread after reopening, got %d", unread)
	}

	// The sender's own unread count is untouched.
	unread, _ = f.svc.UnreadCount(alice.ID)
	if unread != 0 {
		t.Fatalf("expected 0 unread for sender, got %d", unread)
	}
}

func TestOpenConversation_OrdersMessagesAscending(t *testing.T) {
	f := newMessageFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	f.befriend(t, alice, bob)

	contents := []string{"first", "second", "third"}
	for i, c := range contents {
		sender, receiver := alice, bob
		if i%2 == 1 {
			sender, receiver = bob, alice
		}
		if _, err := f.svc.Send(sender.ID, receiver.ID, c); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	chat, err := f.svc.OpenConversation(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("OpenConversation failed: %v", err)
	}
	if len(chat.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(chat.Messages))
	}
	for i, m := range chat.Messages {
		if m.Content != contents[i] {
			t.Fatalf("message %d out of order: expected %q, got %q", i, contents[i], m.Content)
		}
	}
	if !chat.Messages[0].IsSentByCurrentUser {
		t.Fatal("expected first message to be marked as sent by the viewer")
	}
	if chat.Messages[1].SenderName != "Bob" {
		t.Fatalf("expected sender name Bob, got %s", chat.Messages[1].SenderName)
	}
}

func TestDelete_OnlySender(t *testing.T) {
	f := newMessageFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	f.befriend(t, alice, bob)

	m, err := f.svc.Send(alice.ID, bob.ID, "oops")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	err = f.svc.Delete(m.ID, bob.ID)
	assertCode(t, err, apperrors.CodeForbidden)

	if err := f.svc.Delete(m.ID, alice.ID); err != nil {
		t.Fatalf("Delete by sender failed: %v", err)
	}

	err = f.svc.Delete(m.ID, alice.ID)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestListConversations(t *testing.T) {
	f := newMessageFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	carol := f.createUser(t, "Carol", "carol@example.com")
	f.befriend(t, alice, bob)
	f.befriend(t, alice, carol)

	if _, err := f.svc.Send(bob.ID, alice.ID, "hey alice"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, err := f.svc.Send(carol.ID, alice.ID, "hi!"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, err := f.svc.Send(carol.ID, alice.ID, "are you around?"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	inbox, err := f.svc.ListConversations(alice.ID)
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}

	if len(inbox.Conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(inbox.Conversations))
	}
	// Most recent conversation first.
	if inbox.Conversations[0].Partner.ID != carol.ID {
		t.Fatalf("expected carol's conversation first, got partner %d", inbox.Conversations[0].Partner.ID)
	}
	if inbox.Conversations[0].UnreadCount != 2 {
		t.Fatalf("expected 2 unread from carol, got %d", inbox.Conversations[0].UnreadCount)
	}
	if inbox.Conversations[1].UnreadCount != 1 {
		t.Fatalf("expected 1 unread from bob, got %d", inbox.Conversations[1].UnreadCount)
	}
	if inbox.TotalUnreadCount != 3 {
		t.Fatalf("expected total unread 3, got %d", inbox.TotalUnreadCount)
	}
	if inbox.Conversations[0].LastMessage != "are you around?" {
		t.Fatalf("unexpected last message preview: %q", inbox.Conversations[0].LastMessage)
	}
	if inbox.Conversations[0].IsLastMessageFromCurrentUser {
		t.Fatal("last message was from carol, not the viewer")
	}
}

func TestListConversations_TruncatesPreview(t *testing.T) {
	f := newMessageFixture(t)
	alice := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	f.befriend(t, alice, bob)

	long := strings.Repeat("a", 80)
	if _, err := f.svc.Send(alice.ID, bob.ID, long); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	inbox, err := f.svc.ListConversations(bob.ID)
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(inbox.Conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(inbox.Conversations))
	}
	preview := inbox.Conversations[0].LastMessage
	if preview != strings.Repeat("a", 50)+"..." {
		t.Fatalf("unexpected preview: %q", preview)
	}
}
