// ABOUTME: Matrix frontend for unlockbot
// ABOUTME: Feeds room commands to the handler and replies with the result

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/hexwatch/unlockbot/internal/bot"
	"github.com/hexwatch/unlockbot/internal/config"
	"github.com/hexwatch/unlockbot/internal/dedupe"
)

// eventWindow and eventCapacity bound the dedupe tracker. Matrix can
// redeliver events after sync gaps, so commands are keyed by event ID
// and processed at most once inside the window.
const (
	eventWindow   = 5 * time.Minute
	eventCapacity = 4096
)

// networkTimeout bounds outbound Matrix API calls so shutdown never hangs.
const networkTimeout = 10 * time.Second

// Bridge connects Matrix rooms to the command handler.
type Bridge struct {
	config  *config.Config
	matrix  *mautrix.Client
	handler *bot.Handler
	events  *dedupe.Tracker
	logger  *slog.Logger

	// ctx is the parent context for command goroutines
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBridge creates a Matrix bridge around the command handler.
func NewBridge(cfg *config.Config, handler *bot.Handler, logger *slog.Logger) (*Bridge, error) {
	client, err := mautrix.NewClient(cfg.Matrix.Homeserver, id.UserID(cfg.Matrix.UserID), cfg.Matrix.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("creating matrix client: %w", err)
	}

	return &Bridge{
		config:  cfg,
		matrix:  client,
		handler: handler,
		events:  dedupe.NewTracker(eventWindow, eventCapacity),
		logger:  logger,
	}, nil
}

// Run starts the bridge and blocks until context is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Info("starting matrix bridge",
		"homeserver", b.config.Matrix.Homeserver,
		"user_id", b.config.Matrix.UserID,
	)

	// Store context for command goroutines
	b.ctx, b.cancel = context.WithCancel(ctx)
	defer b.cancel()

	// Register event handler for messages
	syncer, ok := b.matrix.Syncer.(*mautrix.DefaultSyncer)
	if !ok {
		return fmt.Errorf("unexpected syncer type: %T", b.matrix.Syncer)
	}
	syncer.OnEventType(event.EventMessage, b.handleMessageEvent)

	// Start syncing
	b.logger.Info("connecting to matrix homeserver")

	syncErr := make(chan error, 1)
	go func() {
		syncErr <- b.matrix.SyncWithContext(b.ctx)
	}()

	b.logger.Info("matrix bridge running")

	// Wait for context cancellation or sync error
	select {
	case <-ctx.Done():
		b.logger.Info("shutting down matrix bridge")
		b.cancel()
		return nil
	case err := <-syncErr:
		return fmt.Errorf("matrix sync failed: %w", err)
	}
}

// Close releases bridge resources.
func (b *Bridge) Close() {
	b.events.Close()
}

// handleMessageEvent filters incoming room messages down to commands.
func (b *Bridge) handleMessageEvent(ctx context.Context, evt *event.Event) {
	// Ignore our own messages
	if evt.Sender == id.UserID(b.config.Matrix.UserID) {
		return
	}

	content, ok := evt.Content.Parsed.(*event.MessageEventContent)
	if !ok {
		return
	}

	// Only handle text messages
	if content.MsgType != event.MsgText {
		return
	}

	roomID := evt.RoomID.String()
	if !b.isRoomAllowed(roomID) {
		b.logger.Debug("ignoring message from non-allowed room", "room", roomID)
		return
	}

	body := content.Body
	if !strings.HasPrefix(body, b.config.Matrix.CommandPrefix) {
		return
	}
	body = strings.TrimSpace(strings.TrimPrefix(body, b.config.Matrix.CommandPrefix))
	if body == "" {
		return
	}

	// Sync can replay events after reconnects; handle each once
	if !b.events.Observe(evt.ID.String()) {
		b.logger.Debug("dropping duplicate event", "event_id", evt.ID.String())
		return
	}

	b.logger.Info("received command",
		"room", roomID,
		"sender", evt.Sender.String(),
		"content", truncate(body, 50),
	)

	// Dispatch in a goroutine so a slow unlock request never blocks sync.
	// Use bridge context for graceful shutdown support.
	go b.dispatch(b.ctx, evt.RoomID, evt.Sender, body)
}

// dispatch runs one command and sends its reply back to the room.
func (b *Bridge) dispatch(ctx context.Context, roomID id.RoomID, sender id.UserID, text string) {
	reply, handled := b.handler.Dispatch(ctx, bot.Message{
		UserID: sender.String(),
		Text:   text,
	})
	if !handled {
		// Another bot in the room may own this word; stay silent
		b.logger.Debug("unrecognized command", "room", roomID.String(), "content", truncate(text, 50))
		return
	}
	if reply == "" {
		return
	}

	b.sendMessage(roomID, reply)
}

// isRoomAllowed checks the room against the configured allow list.
func (b *Bridge) isRoomAllowed(roomID string) bool {
	if len(b.config.Matrix.AllowedRooms) == 0 {
		return true // Allow all if no filter
	}

	for _, allowed := range b.config.Matrix.AllowedRooms {
		if allowed == roomID {
			return true
		}
	}
	return false
}

// sendMessage sends a text message to a room.
func (b *Bridge) sendMessage(roomID id.RoomID, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), networkTimeout)
	defer cancel()
	if _, err := b.matrix.SendText(ctx, roomID, text); err != nil {
		b.logger.Error("failed to send message", "room", roomID.String(), "error", err)
	}
}

// truncate shortens a string to the given max rune count, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
