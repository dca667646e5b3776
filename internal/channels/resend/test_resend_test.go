package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nexus/internal/channels"
	"nexus/internal/tester"
)

func testService(baseURL string) *Service {
	return &Service{
		http:    &http.Client{Timeout: 5 * time.Second},
		apiKey:  "re_test",
		from:    "Nexus <ops@example.com>",
		baseURL: baseURL,
	}
}

func TestSend_PostsExpectedPayload(t *testing.T) {
	var got sendReq
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tester.Eq(t, r.Method, http.MethodPost)
		tester.Eq(t, r.URL.Path, "/emails")
		auth = r.Header.Get("Authorization")
		tester.NoErr(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(sendResp{ID: "email-123"})
	}))
	defer srv.Close()

	id, err := testService(srv.URL).Send(context.Background(), "dest@example.com", "subject line", "<p>hi</p>")
	tester.NoErr(t, err)
	tester.Eq(t, id, "email-123")
	tester.Eq(t, auth, "Bearer re_test")
	tester.Eq(t, got.From, "Nexus <ops@example.com>")
	tester.Eq(t, got.To, []string{"dest@example.com"})
	tester.Eq(t, got.Subject, "subject line")
	tester.Eq(t, got.HTML, "<p>hi</p>")
}

func TestSend_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := testService(srv.URL).Send(context.Background(), "a@b.c", "s", "b")
	tester.Err(t, err)
}

func TestSend_MissingAPIKeyIsNotConfigured(t *testing.T) {
	s := testService("http://unused")
	s.apiKey = ""
	_, err := s.Send(context.Background(), "a@b.c", "s", "b")
	tester.ErrIs(t, err, channels.ErrNotConfigured)
}
