package forms_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdchassis.be/web/internal/backend"
	"sdchassis.be/web/internal/forms"
)

func filledQuote() backend.QuoteRequest {
	return backend.QuoteRequest{
		Name:        "Jean Dupont",
		Email:       "jean@example.com",
		Phone:       "0478737946",
		ProjectType: backend.ProjectResidential,
		Description: "Remplacement de 4 fenêtres",
	}
}

func TestSubmitBlockedByMissingField(t *testing.T) {
	var calls int32
	form := forms.New(func(context.Context, backend.QuoteRequest, string) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	draft := filledQuote()
	draft.Phone = ""
	require.NoError(t, form.Replace(draft))

	snap, err := form.Submit(context.Background())
	var vErr *forms.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"phone"}, vErr.Fields)
	assert.True(t, vErr.Has("phone"))
	assert.Equal(t, forms.Editing, snap.State)
	assert.Equal(t, draft, snap.Draft)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSubmitOnlyChecksPresence(t *testing.T) {
	var sent backend.QuoteRequest
	form := forms.New(func(_ context.Context, q backend.QuoteRequest, _ string) error {
		sent = q
		return nil
	})
	draft := filledQuote()
	draft.ProjectType = "Industriel"
	draft.Email = "pas-une-adresse"
	require.NoError(t, form.Replace(draft))

	snap, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, forms.Succeeded, snap.State)
	assert.Equal(t, "Industriel", sent.ProjectType)
}

func TestContactPhoneIsOptional(t *testing.T) {
	form := forms.New(func(context.Context, backend.ContactMessage, string) error { return nil })
	require.NoError(t, form.Update("name", "Anne"))
	require.NoError(t, form.Update("email", "anne@example.com"))
	require.NoError(t, form.Update("localite", "Sambreville"))
	require.NoError(t, form.Update("message", "Bonjour"))

	snap, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, forms.Succeeded, snap.State)
}

func TestSubmitSingleFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	started := make(chan struct{})
	form := forms.New(func(context.Context, backend.QuoteRequest, string) error {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return nil
	})
	require.NoError(t, form.Replace(filledQuote()))

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background())
		done <- err
	}()
	<-started

	assert.True(t, form.Busy())
	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, forms.ErrInFlight)
	assert.ErrorIs(t, form.Update("name", "Other"), forms.ErrInFlight)
	assert.ErrorIs(t, form.Replace(backend.QuoteRequest{}), forms.ErrInFlight)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first submission did not finish")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSubmitSuccessResetsDraft(t *testing.T) {
	var got backend.QuoteRequest
	var key string
	form := forms.New(func(_ context.Context, q backend.QuoteRequest, k string) error {
		got, key = q, k
		return nil
	})
	require.NoError(t, form.Replace(filledQuote()))

	snap, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, forms.Succeeded, snap.State)
	assert.Equal(t, backend.QuoteRequest{}, snap.Draft)
	assert.Equal(t, filledQuote(), got)
	assert.NotEmpty(t, key)

	require.NoError(t, form.Update("name", "Marie"))
	assert.Equal(t, forms.Editing, form.Snapshot().State)
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	upstream := &backend.HTTPError{Status: 500}
	form := forms.New(func(context.Context, backend.QuoteRequest, string) error { return upstream })
	require.NoError(t, form.Replace(filledQuote()))

	snap, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, upstream))
	assert.Equal(t, forms.Failed, snap.State)
	assert.Equal(t, filledQuote(), snap.Draft)
	assert.Equal(t, upstream, snap.Err)

	require.NoError(t, form.Update("phone", "081000000"))
	snap = form.Snapshot()
	assert.Equal(t, forms.Editing, snap.State)
	assert.NoError(t, snap.Err)
	assert.Equal(t, "081000000", snap.Draft.Phone)
}

func TestUpdateUnknownField(t *testing.T) {
	form := forms.New(func(context.Context, backend.ContactMessage, string) error { return nil })
	assert.ErrorIs(t, form.Update("csrf_token", "x"), backend.ErrUnknownField)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "submitting", forms.Submitting.String())
	assert.Equal(t, "state(9)", forms.State(9).String())
}
