package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdchassis.be/web/internal/testutil"
)

func validQuote(token string) url.Values {
	return url.Values{
		"csrf_token":   {token},
		"name":         {"Jean Dupont"},
		"email":        {"jean@test.be"},
		"phone":        {"0470000000"},
		"project_type": {"Résidentiel"},
		"description":  {"Remplacement 3 fenêtres"},
	}
}

// openForm loads path with a cookie-keeping client and returns its CSRF token.
func openForm(t *testing.T, client *http.Client, target string) string {
	t.Helper()
	resp := get(t, client, target, nil)
	require.Equal(t, http.StatusOK, resp.status)
	return testutil.CSRFToken(t, resp.doc(t))
}

func TestQuotePageRendersEmptyForm(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	doc := get(t, testutil.NewClient(t), ts.URL+"/devis", nil).doc(t)

	form := doc.Find("#quote-form")
	require.Equal(t, 1, form.Length())
	assert.Equal(t, "/devis", form.AttrOr("hx-post", ""))
	assert.Equal(t, "editing", form.AttrOr("data-state", ""))
	assert.Equal(t, []string{"Sélectionnez un type", "Résidentiel", "Commercial", "Rénovation", "Construction neuve"}, texts(form.Find("select[name=project_type] option")))
	assert.Equal(t, "Neuf", form.Find("select[name=project_type] option").Last().AttrOr("value", ""))
	assert.Equal(t, "Envoyer la demande", strings.TrimSpace(form.Find("button .label-idle").Text()))
	assert.Equal(t, "Envoi en cours...", strings.TrimSpace(form.Find("button .label-busy").Text()))
	assert.Equal(t, 0, form.Find(".form-message").Length())
	assert.Contains(t, doc.Find(".form-sidebar").Text(), "Lun-Ven: 8h00 - 18h00")
}

func TestQuoteSubmitSuccessResetsDraft(t *testing.T) {
	t.Parallel()

	stub := testutil.NewBackend(t)
	ts := testutil.NewServer(t, testutil.WithBackendURL(stub.BaseURL()))
	client := testutil.NewClient(t)
	token := openForm(t, client, ts.URL+"/devis")

	resp := post(t, client, ts.URL+"/devis", validQuote(token), nil)
	require.Equal(t, http.StatusOK, resp.status)

	doc := resp.doc(t)
	assert.Equal(t, "succeeded", doc.Find("#quote-form").AttrOr("data-state", ""))
	assert.Equal(t, "Votre demande de devis a été envoyée avec succès! Nous vous contacterons rapidement.",
		strings.TrimSpace(doc.Find(".form-message-success").Text()))
	assert.Equal(t, "", doc.Find("input[name=name]").AttrOr("value", "missing"))
	assert.Equal(t, "", strings.TrimSpace(doc.Find("textarea[name=description]").Text()))

	require.Equal(t, 1, stub.Calls("/api/devis"))
	var sent map[string]string
	require.NoError(t, json.Unmarshal(stub.LastBody("/api/devis"), &sent))
	assert.Equal(t, map[string]string{
		"name":         "Jean Dupont",
		"email":        "jean@test.be",
		"phone":        "0470000000",
		"project_type": "Résidentiel",
		"description":  "Remplacement 3 fenêtres",
	}, sent)
}

func TestQuoteSubmitAcceptsNonObjectAck(t *testing.T) {
	t.Parallel()

	stub := testutil.NewBackend(t)
	stub.ReplyWith("/api/devis", http.StatusCreated, `"ok"`)
	ts := testutil.NewServer(t, testutil.WithBackendURL(stub.BaseURL()))
	client := testutil.NewClient(t)
	token := openForm(t, client, ts.URL+"/devis")

	resp := post(t, client, ts.URL+"/devis", validQuote(token), nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "succeeded", resp.doc(t).Find("#quote-form").AttrOr("data-state", ""))
}

func TestQuoteSubmitSurvivesVisitorDisconnect(t *testing.T) {
	t.Parallel()

	stub := testutil.NewBackend(t)
	release := stub.Hold("/api/devis")
	defer release()
	ts := testutil.NewServer(t, testutil.WithBackendURL(stub.BaseURL()))
	client := testutil.NewClient(t)
	token := openForm(t, client, ts.URL+"/devis")

	impatient := *client
	impatient.Timeout = 300 * time.Millisecond
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/devis", strings.NewReader(validQuote(token).Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	_, err = impatient.Do(req)
	require.Error(t, err, "visitor gives up while the backend is held")
	require.Equal(t, 1, stub.Calls("/api/devis"))

	release()
	require.Eventually(t, func() bool {
		resp, err := client.Get(ts.URL + "/devis")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return false
		}
		return doc.Find("#quote-form").AttrOr("data-state", "") == "succeeded"
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, stub.Calls("/api/devis"))
}

func TestQuoteSubmitFailureKeepsDraft(t *testing.T) {
	t.Parallel()

	stub := testutil.NewBackend(t)
	stub.FailWith("/api/devis", http.StatusInternalServerError)
	ts := testutil.NewServer(t, testutil.WithBackendURL(stub.BaseURL()))
	client := testutil.NewClient(t)
	token := openForm(t, client, ts.URL+"/devis")

	resp := post(t, client, ts.URL+"/devis", validQuote(token), nil)
	require.Equal(t, http.StatusBadGateway, resp.status)

	doc := resp.doc(t)
	assert.Equal(t, "failed", doc.Find("#quote-form").AttrOr("data-state", ""))
	assert.Equal(t, "Erreur lors de l'envoi. Veuillez réessayer.", strings.TrimSpace(doc.Find(".form-message-error").Text()))
	assert.Equal(t, "Jean Dupont", doc.Find("input[name=name]").AttrOr("value", ""))
	assert.Equal(t, "Remplacement 3 fenêtres", strings.TrimSpace(doc.Find("textarea[name=description]").Text()))
	assert.Equal(t, "Résidentiel", doc.Find("select[name=project_type] option[selected]").AttrOr("value", ""))
}

func TestQuoteSubmitWithMissingFieldNeverCallsBackend(t *testing.T) {
	t.Parallel()

	stub := testutil.NewBackend(t)
	ts := testutil.NewServer(t, testutil.WithBackendURL(stub.BaseURL()))
	client := testutil.NewClient(t)
	token := openForm(t, client, ts.URL+"/devis")

	form := validQuote(token)
	form.Set("description", "")
	resp := post(t, client, ts.URL+"/devis", form, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.status)

	doc := resp.doc(t)
	assert.Equal(t, "editing", doc.Find("#quote-form").AttrOr("data-state", ""))
	assert.Equal(t, "true", doc.Find("textarea[name=description]").AttrOr("aria-invalid", ""))
	_, invalid := doc.Find("input[name=name]").Attr("aria-invalid")
	assert.False(t, invalid)
	assert.Equal(t, 0, stub.Calls("/api/devis"))
}

func TestQuoteSubmitRequiresCSRFToken(t *testing.T) {
	t.Parallel()

	stub := testutil.NewBackend(t)
	ts := testutil.NewServer(t, testutil.WithBackendURL(stub.BaseURL()))
	client := testutil.NewClient(t)
	openForm(t, client, ts.URL+"/devis")

	resp := post(t, client, ts.URL+"/devis", validQuote(""), nil)
	assert.Equal(t, http.StatusForbidden, resp.status)
	assert.Equal(t, 0, stub.Calls("/api/devis"))
}

func TestQuoteSecondSubmitWhileInFlightIsRejected(t *testing.T) {
	t.Parallel()

	stub := testutil.NewBackend(t)
	release := stub.Hold("/api/devis")
	defer release()
	ts := testutil.NewServer(t, testutil.WithBackendURL(stub.BaseURL()))
	client := testutil.NewClient(t)
	token := openForm(t, client, ts.URL+"/devis")

	var (
		wg          sync.WaitGroup
		firstStatus int
		firstErr    error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/devis", strings.NewReader(validQuote(token).Encode()))
		if err != nil {
			firstErr = err
			return
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := client.Do(req)
		if err != nil {
			firstErr = err
			return
		}
		resp.Body.Close()
		firstStatus = resp.StatusCode
	}()
	require.Eventually(t, func() bool { return stub.Calls("/api/devis") == 1 }, 5*time.Second, 10*time.Millisecond)

	second := post(t, client, ts.URL+"/devis", validQuote(token), nil)
	assert.Equal(t, http.StatusConflict, second.status)
	assert.Equal(t, "submitting", second.doc(t).Find("#quote-form").AttrOr("data-state", ""))

	htmx := post(t, client, ts.URL+"/devis", validQuote(token), map[string]string{"HX-Request": "true"})
	assert.Equal(t, http.StatusNoContent, htmx.status)

	release()
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, http.StatusOK, firstStatus)
	assert.Equal(t, 1, stub.Calls("/api/devis"))
}

func TestQuoteHTMXSubmitReturnsFragment(t *testing.T) {
	t.Parallel()

	stub := testutil.NewBackend(t)
	stub.FailWith("/api/devis", http.StatusServiceUnavailable)
	ts := testutil.NewServer(t, testutil.WithBackendURL(stub.BaseURL()))
	client := testutil.NewClient(t)
	token := openForm(t, client, ts.URL+"/devis")

	resp := post(t, client, ts.URL+"/devis", validQuote(""), map[string]string{
		"HX-Request":   "true",
		"X-CSRF-Token": token,
	})
	require.Equal(t, http.StatusOK, resp.status, "htmx only swaps 2xx answers")
	assert.NotContains(t, string(resp.body), "<header")

	doc := resp.doc(t)
	assert.Equal(t, 1, doc.Find("#quote-form").Length())
	assert.Equal(t, "failed", doc.Find("#quote-form").AttrOr("data-state", ""))
	assert.Equal(t, 1, stub.Calls("/api/devis"))
}

func TestQuoteDraftIsKeptPerVisitor(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t)
	token := openForm(t, client, ts.URL+"/devis")

	resp := post(t, client, ts.URL+"/devis/draft", url.Values{
		"name":         {"  Anne Martin "},
		"project_type": {"Rénovation"},
		"unknown":      {"ignored"},
	}, map[string]string{"HX-Request": "true", "X-CSRF-Token": token})
	require.Equal(t, http.StatusNoContent, resp.status)

	doc := get(t, client, ts.URL+"/devis", nil).doc(t)
	assert.Equal(t, "Anne Martin", doc.Find("input[name=name]").AttrOr("value", ""))
	assert.Equal(t, "Rénovation", doc.Find("select[name=project_type] option[selected]").AttrOr("value", ""))

	other := get(t, testutil.NewClient(t), ts.URL+"/devis", nil).doc(t)
	assert.Equal(t, "", other.Find("input[name=name]").AttrOr("value", "missing"))
}

func TestContactSubmitWithoutPhoneSucceeds(t *testing.T) {
	t.Parallel()

	stub := testutil.NewBackend(t)
	ts := testutil.NewServer(t, testutil.WithBackendURL(stub.BaseURL()))
	client := testutil.NewClient(t)
	token := openForm(t, client, ts.URL+"/contact")

	resp := post(t, client, ts.URL+"/contact", url.Values{
		"csrf_token": {token},
		"name":       {"Marie"},
		"email":      {"marie@test.be"},
		"localite":   {"Namur"},
		"message":    {"Bonjour"},
	}, nil)
	require.Equal(t, http.StatusOK, resp.status)

	doc := resp.doc(t)
	assert.Equal(t, "Votre message a été envoyé avec succès! Nous vous répondrons rapidement.",
		strings.TrimSpace(doc.Find(".form-message-success").Text()))
	assert.Contains(t, doc.Find(".why-us").Text(), "Devis gratuit et sans engagement")
	assert.Contains(t, doc.Find(".opening-hours").Text(), "Dimanche: Fermé")

	var sent map[string]string
	require.NoError(t, json.Unmarshal(stub.LastBody("/api/contact"), &sent))
	assert.Equal(t, "Namur", sent["localite"])
	assert.Equal(t, "", sent["phone"])
}

func TestContactSubmitMissingLocaliteIsBlocked(t *testing.T) {
	t.Parallel()

	stub := testutil.NewBackend(t)
	ts := testutil.NewServer(t, testutil.WithBackendURL(stub.BaseURL()))
	client := testutil.NewClient(t)
	token := openForm(t, client, ts.URL+"/contact")

	resp := post(t, client, ts.URL+"/contact", url.Values{
		"csrf_token": {token},
		"name":       {"Marie"},
		"email":      {"marie@test.be"},
		"message":    {"Bonjour"},
	}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.status)
	assert.Equal(t, "true", resp.doc(t).Find("input[name=localite]").AttrOr("aria-invalid", ""))
	assert.Equal(t, 0, stub.Calls("/api/contact"))
}
