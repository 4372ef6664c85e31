package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/g8d3/ai-chat-dev/internal/domain"
	"github.com/g8d3/ai-chat-dev/internal/hub"
)

// fakeChatRepo records arguments and returns canned results.
type fakeChatRepo struct {
	createdTitle    string
	createdPromptID *string
	createdDoc      bool

	updatedTitle   string
	updatedContent string
	updatedMeta    *string

	chat      *domain.Chat
	chatErr   error
	modelErr  error
	promptErr error
	total     int64
	page      []domain.Chat
}

func (f *fakeChatRepo) CreateChat(_ context.Context, _ *gorm.DB, userID, modelID, title string, promptID *string, isDocument bool) (*domain.Chat, error) {
	f.createdTitle = title
	f.createdPromptID = promptID
	f.createdDoc = isDocument
	return &domain.Chat{ID: "c1", UserID: userID, ModelID: modelID, Title: title, PromptID: promptID, IsDocument: isDocument}, nil
}

func (f *fakeChatRepo) ListChats(context.Context, *gorm.DB, string) ([]domain.Chat, error) {
	return f.page, nil
}

func (f *fakeChatRepo) GetChat(context.Context, *gorm.DB, string, string) (*domain.Chat, error) {
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return f.chat, nil
}

func (f *fakeChatRepo) UpdateChatTitle(_ context.Context, _ *gorm.DB, _, _, title string) error {
	f.updatedTitle = title
	return nil
}

func (f *fakeChatRepo) UpdateChatContent(_ context.Context, _ *gorm.DB, _, _, content string, metadata *string) error {
	f.updatedContent = content
	f.updatedMeta = metadata
	return nil
}

func (f *fakeChatRepo) CountChats(context.Context, *gorm.DB, string) (int64, error) {
	return f.total, nil
}

func (f *fakeChatRepo) ListChatsPage(context.Context, *gorm.DB, string, int, int) ([]domain.Chat, error) {
	return f.page, nil
}

func (f *fakeChatRepo) GetModel(context.Context, *gorm.DB, string) (*domain.Model, error) {
	if f.modelErr != nil {
		return nil, f.modelErr
	}
	return &domain.Model{ID: "m1"}, nil
}

func (f *fakeChatRepo) GetPrompt(context.Context, *gorm.DB, string, string) (*domain.Prompt, error) {
	if f.promptErr != nil {
		return nil, f.promptErr
	}
	return &domain.Prompt{ID: "p1"}, nil
}

func TestChatCreateDefaultsAndNormalizesTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "New chat"},
		{"   ", "New chat"},
		{"  hello   world  ", "hello world"},
		{strings.Repeat("x", 100), strings.Repeat("x", 60)},
	}
	for _, tc := range cases {
		f := &fakeChatRepo{}
		svc := NewChatService(nil, f, nil)
		c, err := svc.Create(context.Background(), "alice", CreateChatInput{ModelID: "m1", Title: tc.in})
		if err != nil {
			t.Fatalf("Create(%q): %v", tc.in, err)
		}
		if c.Title != tc.want {
			t.Errorf("Create(%q) title = %q, want %q", tc.in, c.Title, tc.want)
		}
	}
}

func TestChatCreateValidatesReferences(t *testing.T) {
	f := &fakeChatRepo{modelErr: gorm.ErrRecordNotFound}
	svc := NewChatService(nil, f, nil)
	if _, err := svc.Create(context.Background(), "alice", CreateChatInput{ModelID: "nope"}); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("missing model: err = %v", err)
	}

	pid := "nope"
	f = &fakeChatRepo{promptErr: gorm.ErrRecordNotFound}
	svc = NewChatService(nil, f, nil)
	if _, err := svc.Create(context.Background(), "alice", CreateChatInput{ModelID: "m1", PromptID: &pid}); !errors.Is(err, ErrPromptNotFound) {
		t.Fatalf("missing prompt: err = %v", err)
	}

	// Empty prompt id is treated as no prompt.
	empty := ""
	f = &fakeChatRepo{promptErr: gorm.ErrRecordNotFound}
	svc = NewChatService(nil, f, nil)
	c, err := svc.Create(context.Background(), "alice", CreateChatInput{ModelID: "m1", PromptID: &empty})
	if err != nil {
		t.Fatalf("empty prompt id: %v", err)
	}
	if c.PromptID != nil {
		t.Fatalf("empty prompt id not cleared: %v", *c.PromptID)
	}
}

func TestChatGetMapsNotFound(t *testing.T) {
	f := &fakeChatRepo{chatErr: gorm.ErrRecordNotFound}
	svc := NewChatService(nil, f, nil)
	if _, err := svc.Get(context.Background(), "alice", "c1"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("err = %v, want ErrChatNotFound", err)
	}
}

func TestChatUpdateTitle(t *testing.T) {
	f := &fakeChatRepo{chat: &domain.Chat{ID: "c1"}}
	svc := NewChatService(nil, f, nil)
	if err := svc.UpdateTitle(context.Background(), "alice", "c1", "  new   name "); err != nil {
		t.Fatalf("UpdateTitle: %v", err)
	}
	if f.updatedTitle != "new name" {
		t.Fatalf("stored title = %q", f.updatedTitle)
	}

	if err := svc.UpdateTitle(context.Background(), "alice", "c1", "   "); err != nil {
		t.Fatalf("blank title: %v", err)
	}
	if f.updatedTitle != "Untitled" {
		t.Fatalf("blank title stored as %q", f.updatedTitle)
	}

	f.chatErr = gorm.ErrRecordNotFound
	if err := svc.UpdateTitle(context.Background(), "alice", "c1", "x"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("missing chat: err = %v", err)
	}
}

func TestChatUpdateContentBroadcasts(t *testing.T) {
	f := &fakeChatRepo{chat: &domain.Chat{ID: "c1", IsDocument: true}}
	rb := &recordingBroadcaster{}
	svc := NewChatService(nil, f, rb)

	meta := `{"cursor":3}`
	if err := svc.UpdateContent(context.Background(), "alice", "c1", "saved text", &meta); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if f.updatedContent != "saved text" || f.updatedMeta == nil || *f.updatedMeta != meta {
		t.Fatalf("content not stored: %q %v", f.updatedContent, f.updatedMeta)
	}
	if len(rb.events) != 1 {
		t.Fatalf("got %d events, want 1", len(rb.events))
	}
	ev, ok := rb.events[0].(hub.DocumentEvent)
	if !ok {
		t.Fatalf("event type %T", rb.events[0])
	}
	if ev.Type != hub.EventTypeDocumentUpdate || ev.ChatID != "c1" || ev.Content != "saved text" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestChatUpdateContentMissingChat(t *testing.T) {
	f := &fakeChatRepo{chatErr: gorm.ErrRecordNotFound}
	rb := &recordingBroadcaster{}
	svc := NewChatService(nil, f, rb)
	if err := svc.UpdateContent(context.Background(), "alice", "c1", "x", nil); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("err = %v, want ErrChatNotFound", err)
	}
	if len(rb.events) != 0 {
		t.Fatalf("broadcast for failed save")
	}
}

func TestChatListPage(t *testing.T) {
	f := &fakeChatRepo{total: 0}
	svc := NewChatService(nil, f, nil)
	items, total, err := svc.ListPage(context.Background(), "alice", 0, -1)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("empty list: total=%d len=%d", total, len(items))
	}

	f = &fakeChatRepo{total: 2, page: []domain.Chat{{ID: "a"}, {ID: "b"}}}
	svc = NewChatService(nil, f, nil)
	items, total, err = svc.ListPage(context.Background(), "alice", 1, 20)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total=%d len=%d", total, len(items))
	}
}
