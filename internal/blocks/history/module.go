// Package history implements the chat-history block: it filters the
// history by role, keeps the most recent entries, and concatenates their
// contents.
package history

import (
	"context"
	"strings"

	"github.com/theFisher86/coolChat-sub000/internal/chatctx"
	"github.com/theFisher86/coolChat-sub000/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

const (
	// KindID identifies this block kind in circuit documents.
	KindID = "chat_history"

	// PortOutput is the single output port.
	PortOutput = "output"

	typeAll   = "all"
	typeUser  = "user"
	typeAI    = "ai"
	typeOther = "other"
)

// Module implements schema.Module for this package.
type Module struct{}

// Register registers the chat_history kind with the registry.
func (m *Module) Register(r *schema.Registry) {
	r.Register(&schema.Kind{
		ID:          KindID,
		Description: "Emits a slice of the chat history as text.",
		Outputs: []schema.Port{
			{Name: PortOutput, Type: cty.String},
		},
		Settings: []schema.SettingSpec{
			{
				Name:    "message_type",
				Type:    cty.String,
				Default: cty.StringVal(typeAll),
				Check:   schema.OneOf(typeAll, typeUser, typeAI, typeOther),
			},
			{
				// 0 or blank means unbounded.
				Name:    "message_count",
				Type:    cty.Number,
				Default: cty.NumberIntVal(0),
				Check:   schema.MinInt(0),
			},
		},
		Run: run,
	})
}

func run(ctx context.Context, settings schema.Settings, inputs map[string]cty.Value, chat chatctx.Provider) (map[string]cty.Value, error) {
	messageType := settings.String("message_type")
	count := settings.Int("message_count")

	var kept []string
	for _, msg := range chat.ChatHistory() {
		if matches(messageType, msg.Role) {
			kept = append(kept, msg.Content)
		}
	}

	// Keep the most recent entries, preserving chronological order.
	if count > 0 && len(kept) > count {
		kept = kept[len(kept)-count:]
	}

	return map[string]cty.Value{PortOutput: cty.StringVal(strings.Join(kept, "\n"))}, nil
}

func matches(messageType string, role chatctx.Role) bool {
	switch messageType {
	case typeUser:
		return role == chatctx.RoleUser
	case typeAI:
		return role == chatctx.RoleAI
	case typeOther:
		return role != chatctx.RoleUser && role != chatctx.RoleAI
	default:
		return true
	}
}
