// ABOUTME: Command layer mapping chat commands to store and unlock calls
// ABOUTME: The command set is assembled from config flags at construction

package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/hexwatch/unlockbot/internal/codes"
	"github.com/hexwatch/unlockbot/internal/store"
	"github.com/hexwatch/unlockbot/internal/themes"
	"github.com/hexwatch/unlockbot/internal/unlock"
)

// Message is one incoming chat command, already stripped of the
// platform's command prefix by the frontend.
type Message struct {
	UserID string // platform-resolved sender identifier
	Text   string // command word plus raw argument text
}

// Requester issues unlock calls. *unlock.Client satisfies it.
type Requester interface {
	Request(ctx context.Context, action, code, content string) (unlock.Result, error)
}

// Options select which commands the handler registers and how replies
// are rendered.
type Options struct {
	EnabledThemes []string // theme tokens to register as commands
	Crypto        bool     // register encrypt/decrypt
	HidePrefix    bool     // raw unlock values, no descriptive phrasing
	GoldKey       bool     // surface the gold key on the aggregate theme
}

type handlerFunc func(ctx context.Context, userID, args string) (string, error)

// Handler routes chat commands to the code store and the unlock client.
// Dispatches are independent; the store's own locking keeps concurrent
// binds safe.
type Handler struct {
	store    store.Store
	client   Requester
	format   themes.Formatter
	commands map[string]handlerFunc
	order    []string
	logger   *slog.Logger
}

// New builds a Handler with the command set selected by opts. Every
// enabled theme token must exist in the catalog; a miss is a
// configuration error, reported before the bot starts serving.
func New(st store.Store, client Requester, table *themes.Table, opts Options, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		store:    st,
		client:   client,
		format:   themes.Formatter{HidePrefix: opts.HidePrefix, GoldKey: opts.GoldKey},
		commands: make(map[string]handlerFunc),
		logger:   logger.With("component", "bot"),
	}

	h.register("code", h.handleCode)
	for _, token := range opts.EnabledThemes {
		th, ok := table.Lookup(token)
		if !ok {
			return nil, fmt.Errorf("enabled theme %q is not in the catalog", token)
		}
		h.register(token, h.themeHandler(th))
	}
	if opts.Crypto {
		h.register("encrypt", h.cryptoHandler("encrypt"))
		h.register("decrypt", h.cryptoHandler("decrypt"))
	}
	return h, nil
}

func (h *Handler) register(name string, fn handlerFunc) {
	h.commands[name] = fn
	h.order = append(h.order, name)
}

// Commands returns the registered command words in registration order.
func (h *Handler) Commands() []string {
	return slices.Clone(h.order)
}

// Dispatch routes one message to its command handler. handled is false
// when the first word is not a registered command; the frontend stays
// silent in that case so other bots in the room can own the word.
func (h *Handler) Dispatch(ctx context.Context, msg Message) (reply string, handled bool) {
	word, args := splitCommand(msg.Text)
	if word == "" {
		return "", false
	}
	fn, ok := h.commands[word]
	if !ok {
		return "", false
	}

	logger := h.logger.With(
		"request_id", uuid.New().String(),
		"command", word,
		"user_id", msg.UserID,
	)
	logger.Debug("dispatching command")

	reply, err := fn(ctx, msg.UserID, args)
	if err != nil {
		return h.renderError(logger, err), true
	}
	return reply, true
}

// splitCommand separates the command word from the raw argument text.
// The word is case-insensitive; argument text keeps its original casing.
func splitCommand(text string) (word, args string) {
	word, args, _ = strings.Cut(strings.TrimSpace(text), " ")
	return strings.ToLower(word), strings.TrimSpace(args)
}

// renderError turns a handler error into the user-facing reply. User
// mistakes get corrective text; everything else is reported as a failed
// request with its cause. The unlock client already strips the API key
// from its errors, so the cause is safe to relay.
func (h *Handler) renderError(logger *slog.Logger, err error) string {
	switch {
	case errors.Is(err, store.ErrNotBound):
		logger.Debug("user has no bound code")
		return "No identification code bound. Send \"code " + codes.Placeholder + "\" first."
	case errors.Is(err, codes.ErrBadFormat):
		logger.Debug("rejected malformed code")
		return "That does not look like an identification code. Expected four groups of four hex digits, like 0123-4567-89AB-CDEF."
	default:
		logger.Warn("command failed", "error", err)
		return "Unlock request failed: " + err.Error()
	}
}

// handleCode binds a new identification code or reports the current one.
func (h *Handler) handleCode(ctx context.Context, userID, args string) (string, error) {
	if args == "" {
		current, err := h.store.Current(ctx, userID)
		if err != nil {
			return "", err
		}
		return "Current identification code: " + current, nil
	}

	code, err := codes.Normalize(args)
	if err != nil {
		return "", err
	}
	if err := h.store.Bind(ctx, userID, code); err != nil {
		return "", fmt.Errorf("saving code: %w", err)
	}
	return "Identification code bound: " + code, nil
}

// themeHandler builds the handler for one catalog theme.
func (h *Handler) themeHandler(th themes.Theme) handlerFunc {
	return func(ctx context.Context, userID, _ string) (string, error) {
		code, err := h.store.Current(ctx, userID)
		if err != nil {
			return "", err
		}
		res, err := h.client.Request(ctx, th.Action, code, "")
		if err != nil {
			return "", err
		}
		return h.format.Format(th, res.Primary, res.Secondary), nil
	}
}

// cryptoHandler builds the encrypt or decrypt handler. Both require the
// free-text argument and relay the service's transformed value verbatim.
func (h *Handler) cryptoHandler(action string) handlerFunc {
	return func(ctx context.Context, userID, args string) (string, error) {
		if args == "" {
			return "Usage: " + action + " <text>", nil
		}
		code, err := h.store.Current(ctx, userID)
		if err != nil {
			return "", err
		}
		res, err := h.client.Request(ctx, action, code, args)
		if err != nil {
			return "", err
		}
		return res.Primary, nil
	}
}
