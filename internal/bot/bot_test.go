// ABOUTME: Tests for the chat command layer
// ABOUTME: Drives Dispatch end-to-end over a memory store and a stub service

package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexwatch/unlockbot/internal/store"
	"github.com/hexwatch/unlockbot/internal/themes"
	"github.com/hexwatch/unlockbot/internal/unlock"
)

const boundCode = "0123-4567-89AB-CDEF"

var allTokens = []string{"orange", "blue", "pink", "lucky", "gold", "all"}

type requestCall struct {
	action  string
	code    string
	content string
}

// fakeRequester records calls and plays back a canned result or error.
type fakeRequester struct {
	result unlock.Result
	err    error
	calls  []requestCall
}

func (f *fakeRequester) Request(_ context.Context, action, code, content string) (unlock.Result, error) {
	f.calls = append(f.calls, requestCall{action: action, code: code, content: content})
	if f.err != nil {
		return unlock.Result{}, f.err
	}
	return f.result, nil
}

// newTestHandler builds a Handler over a fresh memory store.
func newTestHandler(t *testing.T, client Requester, opts Options) *Handler {
	t.Helper()
	table, err := themes.Load()
	require.NoError(t, err)

	st := store.NewMemoryStore()
	t.Cleanup(func() { _ = st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := New(st, client, table, opts, logger)
	require.NoError(t, err)
	return h
}

// dispatch runs one command and requires it to be handled.
func dispatch(t *testing.T, h *Handler, userID, text string) string {
	t.Helper()
	reply, handled := h.Dispatch(context.Background(), Message{UserID: userID, Text: text})
	require.True(t, handled, "command %q should be handled", text)
	return reply
}

func TestNew_RejectsUnknownTheme(t *testing.T) {
	table, err := themes.Load()
	require.NoError(t, err)

	_, err = New(store.NewMemoryStore(), &fakeRequester{}, table, Options{
		EnabledThemes: []string{"purple"},
	}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "purple")
}

func TestHandler_Commands_RegistrationOrder(t *testing.T) {
	h := newTestHandler(t, &fakeRequester{}, Options{
		EnabledThemes: []string{"orange", "all"},
		Crypto:        true,
	})

	assert.Equal(t, []string{"code", "orange", "all", "encrypt", "decrypt"}, h.Commands())
}

func TestHandler_Dispatch_UnknownCommand(t *testing.T) {
	h := newTestHandler(t, &fakeRequester{}, Options{EnabledThemes: allTokens})

	reply, handled := h.Dispatch(context.Background(), Message{UserID: "@u:x", Text: "weather tomorrow"})

	assert.False(t, handled)
	assert.Empty(t, reply)
}

func TestHandler_Dispatch_EmptyText(t *testing.T) {
	h := newTestHandler(t, &fakeRequester{}, Options{})

	_, handled := h.Dispatch(context.Background(), Message{UserID: "@u:x", Text: "   "})

	assert.False(t, handled)
}

func TestHandler_Dispatch_DisabledThemeIsUnhandled(t *testing.T) {
	h := newTestHandler(t, &fakeRequester{}, Options{EnabledThemes: []string{"orange"}})

	_, handled := h.Dispatch(context.Background(), Message{UserID: "@u:x", Text: "pink"})

	assert.False(t, handled)
}

func TestHandler_Dispatch_CryptoDisabled(t *testing.T) {
	h := newTestHandler(t, &fakeRequester{}, Options{EnabledThemes: allTokens})

	_, handled := h.Dispatch(context.Background(), Message{UserID: "@u:x", Text: "encrypt hi"})

	assert.False(t, handled)
}

func TestHandler_Code_BindThenQuery(t *testing.T) {
	h := newTestHandler(t, &fakeRequester{}, Options{})

	bound := dispatch(t, h, "@u:x", "code "+boundCode)
	assert.Contains(t, bound, boundCode)

	current := dispatch(t, h, "@u:x", "code")
	assert.Contains(t, current, boundCode)
}

func TestHandler_Code_NormalizesCase(t *testing.T) {
	h := newTestHandler(t, &fakeRequester{}, Options{})

	reply := dispatch(t, h, "@u:x", "code 89ab-cdef-0123-4567")

	assert.Contains(t, reply, "89AB-CDEF-0123-4567")
}

func TestHandler_Code_RejectsMalformed(t *testing.T) {
	h := newTestHandler(t, &fakeRequester{}, Options{})

	reply := dispatch(t, h, "@u:x", "code zzzz-zzzz-zzzz-zzzz")
	assert.Contains(t, reply, "identification code")
	assert.NotContains(t, reply, "bound:")

	// The rejected code must not have become current.
	after := dispatch(t, h, "@u:x", "code")
	assert.Contains(t, after, "No identification code bound")
}

func TestHandler_Code_QueryUnbound(t *testing.T) {
	h := newTestHandler(t, &fakeRequester{}, Options{})

	reply := dispatch(t, h, "@u:x", "code")

	assert.Contains(t, reply, "No identification code bound")
}

func TestHandler_Dispatch_CommandWordIsCaseInsensitive(t *testing.T) {
	h := newTestHandler(t, &fakeRequester{}, Options{})

	reply := dispatch(t, h, "@u:x", "CODE "+boundCode)

	assert.Contains(t, reply, boundCode)
}

func TestHandler_Theme_Success(t *testing.T) {
	fake := &fakeRequester{result: unlock.Result{Primary: "KEY123"}}
	h := newTestHandler(t, fake, Options{EnabledThemes: allTokens})
	dispatch(t, h, "@u:x", "code "+boundCode)

	reply := dispatch(t, h, "@u:x", "pink")

	assert.Contains(t, reply, "KEY123")
	require.Len(t, fake.calls, 1)
	assert.Equal(t, requestCall{action: "pink", code: boundCode}, fake.calls[0])
}

func TestHandler_Theme_NotBound(t *testing.T) {
	fake := &fakeRequester{result: unlock.Result{Primary: "KEY123"}}
	h := newTestHandler(t, fake, Options{EnabledThemes: allTokens})

	reply := dispatch(t, h, "@u:x", "pink")

	assert.Contains(t, reply, "No identification code bound")
	assert.Empty(t, fake.calls, "no request should go out without a bound code")
}

func TestHandler_Theme_RemoteFailure(t *testing.T) {
	fake := &fakeRequester{err: errors.New("unlock service returned status 503")}
	h := newTestHandler(t, fake, Options{EnabledThemes: allTokens})
	dispatch(t, h, "@u:x", "code "+boundCode)

	reply := dispatch(t, h, "@u:x", "pink")

	assert.Contains(t, reply, "Unlock request failed")
	assert.Contains(t, reply, "503")
	assert.NotContains(t, reply, "KEY123")
	assert.NotContains(t, reply, "No identification code bound",
		"a remote failure must not read as a missing bind")
}

func TestHandler_All_GoldKeyEnabled(t *testing.T) {
	fake := &fakeRequester{result: unlock.Result{Primary: "R", Secondary: "G"}}
	h := newTestHandler(t, fake, Options{EnabledThemes: allTokens, GoldKey: true})
	dispatch(t, h, "@u:x", "code "+boundCode)

	reply := dispatch(t, h, "@u:x", "all")

	assert.Contains(t, reply, "R")
	assert.Contains(t, reply, "G")
}

func TestHandler_All_GoldKeyDisabled(t *testing.T) {
	fake := &fakeRequester{result: unlock.Result{Primary: "RESULT", Secondary: "GOLDVALUE"}}
	h := newTestHandler(t, fake, Options{EnabledThemes: allTokens})
	dispatch(t, h, "@u:x", "code "+boundCode)

	reply := dispatch(t, h, "@u:x", "all")

	assert.Contains(t, reply, "RESULT")
	assert.NotContains(t, reply, "GOLDVALUE")
}

func TestHandler_HidePrefix_RawValueOnly(t *testing.T) {
	fake := &fakeRequester{result: unlock.Result{Primary: "20260515"}}
	h := newTestHandler(t, fake, Options{EnabledThemes: allTokens, HidePrefix: true})
	dispatch(t, h, "@u:x", "code "+boundCode)

	reply := dispatch(t, h, "@u:x", "lucky")

	assert.Equal(t, "20260515", reply)
}

func TestHandler_Encrypt_PassesContent(t *testing.T) {
	fake := &fakeRequester{result: unlock.Result{Primary: "CIPHER"}}
	h := newTestHandler(t, fake, Options{Crypto: true})
	dispatch(t, h, "@u:x", "code "+boundCode)

	reply := dispatch(t, h, "@u:x", "encrypt hello there world")

	assert.Equal(t, "CIPHER", reply)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, requestCall{action: "encrypt", code: boundCode, content: "hello there world"}, fake.calls[0])
}

func TestHandler_Decrypt_PassesContent(t *testing.T) {
	fake := &fakeRequester{result: unlock.Result{Primary: "PLAIN"}}
	h := newTestHandler(t, fake, Options{Crypto: true})
	dispatch(t, h, "@u:x", "code "+boundCode)

	reply := dispatch(t, h, "@u:x", "decrypt CIPHER")

	assert.Equal(t, "PLAIN", reply)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "decrypt", fake.calls[0].action)
}

func TestHandler_Crypto_MissingArgument(t *testing.T) {
	fake := &fakeRequester{}
	h := newTestHandler(t, fake, Options{Crypto: true})
	dispatch(t, h, "@u:x", "code "+boundCode)

	reply := dispatch(t, h, "@u:x", "encrypt")

	assert.Contains(t, reply, "Usage")
	assert.Empty(t, fake.calls)
}

func TestHandler_UsersAreIsolated(t *testing.T) {
	h := newTestHandler(t, &fakeRequester{}, Options{})

	dispatch(t, h, "@alice:x", "code "+boundCode)
	reply := dispatch(t, h, "@bob:x", "code")

	assert.Contains(t, reply, "No identification code bound")
}

// TestHandler_EndToEnd_StubService wires the real HTTP client against a
// stub unlock service, covering the whole path from chat text to reply.
func TestHandler_EndToEnd_StubService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "pink":
			w.Write([]byte(`{"result":"KEY123"}`))
		case "all":
			w.Write([]byte(`{"result":"R","goldKey":"G"}`))
		default:
			http.Error(w, "unknown action", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	table, err := themes.Load()
	require.NoError(t, err)
	client := unlock.New(srv.URL, "e2e-key", 2*time.Second)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := New(store.NewMemoryStore(), client, table, Options{
		EnabledThemes: allTokens,
		GoldKey:       true,
	}, logger)
	require.NoError(t, err)

	dispatch(t, h, "@u:x", "code "+boundCode)

	assert.Contains(t, dispatch(t, h, "@u:x", "pink"), "KEY123")

	all := dispatch(t, h, "@u:x", "all")
	assert.Contains(t, all, "R")
	assert.Contains(t, all, "G")

	failed := dispatch(t, h, "@u:x", "orange")
	assert.Contains(t, failed, "Unlock request failed")
	assert.NotContains(t, failed, "e2e-key")
}
