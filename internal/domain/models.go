// Package domain defines the persistence models for providers, models,
// prompts, chats, messages, and interaction logs. These types are mapped
// with GORM and form the core data layer of the chat backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Message roles. Every message is authored by exactly one of these.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Interaction log statuses. One log row is written per completion attempt.
const (
	LogStatusSuccess = "success"
	LogStatusError   = "error"
)

// Provider is a user-configured OpenAI-compatible API endpoint.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the provider owner; indexed for retrieval.
//   - Name: human-readable label ("OpenRouter", "local vLLM", ...).
//   - BaseURL: endpoint root, e.g. "https://api.openai.com/v1".
//   - APIKey: credential used for outbound calls. Stored encrypted when an
//     encryption key is configured; always masked before leaving the API.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type Provider struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_providers"`
	Name      string         `json:"name"       gorm:"type:varchar(255);not null"`
	BaseURL   string         `json:"base_url"   gorm:"type:varchar(512);not null"`
	APIKey    string         `json:"api_key"    gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Provider.
func (Provider) TableName() string { return "providers" }

// Model is a model identifier registered under a provider (e.g.
// "gpt-4o-mini" under an OpenAI-compatible provider).
type Model struct {
	ID         string         `json:"id"          gorm:"type:char(36);primaryKey"`
	ProviderID string         `json:"provider_id" gorm:"type:char(36);not null;index"`
	Name       string         `json:"name"        gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"           gorm:"index"`

	// Provider is the owning endpoint. Models are cascade-deleted if
	// their provider is removed.
	Provider Provider `json:"-" gorm:"foreignKey:ProviderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Model.
func (Model) TableName() string { return "models" }

// Prompt is a reusable system prompt that can be attached to chats.
type Prompt struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_prompts"`
	Name      string         `json:"name"       gorm:"type:varchar(255);not null"`
	Content   string         `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Prompt.
func (Prompt) TableName() string { return "prompts" }

// Chat represents a conversation owned by a user. A chat references the
// model it talks to and, optionally, a system prompt. Chats flagged as
// documents additionally carry a freeform content blob that collaborating
// clients edit over the socket channel.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the chat owner; indexed for efficient retrieval.
//   - ModelID: model the chat converses with.
//   - PromptID: optional system prompt reference.
//   - Title: human-readable chat title (auto-generated if not provided).
//   - IsDocument: marks the chat as a collaborative document.
//   - Content: freeform document blob (document chats only).
//   - Metadata: opaque client-side metadata (JSON string).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (chats are never implicitly deleted).
type Chat struct {
	ID         string         `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     string         `json:"user_id"     gorm:"type:varchar(64);not null;index:idx_user_chats"`
	ModelID    string         `json:"model_id"    gorm:"type:char(36);not null;index"`
	PromptID   *string        `json:"prompt_id,omitempty" gorm:"type:char(36);index"`
	Title      string         `json:"title"       gorm:"type:varchar(255);not null;default:'New chat'"`
	IsDocument bool           `json:"is_document" gorm:"not null;default:false"`
	Content    string         `json:"content"     gorm:"type:text"`
	Metadata   string         `json:"metadata"    gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"           gorm:"index"`

	// Model is the referenced model. The FK keeps ids consistent on
	// update; chats outlive their model on delete.
	Model Model `json:"-" gorm:"foreignKey:ModelID;references:ID;constraint:OnUpdate:CASCADE"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// Message represents a single utterance within a chat. Messages are linked
// to a chat and authored either by the "user" or the "assistant". They are
// immutable once created and ordered by creation time ascending.
type Message struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	ChatID    string         `json:"chat_id"   gorm:"type:char(36);not null;index:idx_chat_msgs,priority:1"`
	Role      string         `json:"role"      gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content   string         `json:"content"   gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_chat_msgs,priority:2"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`

	// Chat is the parent conversation. Messages are cascade-deleted
	// if their chat is removed.
	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// InteractionLog is an append-only audit record of one completion attempt,
// successful or not. The request/response text is captured verbatim; when
// a completion fails the Response field holds a placeholder and ErrorDetail
// carries the failure reason.
type InteractionLog struct {
	ID               string    `json:"id"                gorm:"type:char(36);primaryKey"`
	Username         string    `json:"username"          gorm:"type:varchar(64);not null;index"`
	ModelName        string    `json:"model_name"        gorm:"type:varchar(255);not null"`
	ProviderEndpoint string    `json:"provider_endpoint" gorm:"type:varchar(512);not null"`
	ChatTitle        string    `json:"chat_title"        gorm:"type:varchar(255)"`
	Request          string    `json:"request"           gorm:"type:text"`
	Response         string    `json:"response"          gorm:"type:text"`
	Status           string    `json:"status"            gorm:"type:varchar(16);not null;check:status IN ('success','error')"`
	ErrorDetail      string    `json:"error_detail,omitempty" gorm:"type:text"`
	CreatedAt        time.Time `json:"created_at"        gorm:"index"`
}

// TableName returns the database table name for InteractionLog.
func (InteractionLog) TableName() string { return "interaction_logs" }
