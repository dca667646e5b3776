package phone

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
		baseURL: baseURL,
	}
}

func sampleCall() channels.CallRequest {
	return channels.CallRequest{
		PhoneNumber:   "+15550100",
		CalleeName:    "Dana, Sam",
		AgentName:     "Nexus Assistant",
		Organization:  "Nexus",
		ActionSummary: "Notify about urgent action for Launch: call legal",
		Context:       "Project: Launch",
	}
}

func TestPlaceCall_PostsOriginalPayloadShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tester.Eq(t, r.URL.Path, "/api/phone/call")
		tester.NoErr(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(callResp{CallID: "CA123", Status: "initiated"})
	}))
	defer srv.Close()

	id, err := testService(srv.URL).PlaceCall(context.Background(), sampleCall())
	tester.NoErr(t, err)
	tester.Eq(t, id, "CA123")
	tester.Eq(t, got["phone_number"].(string), "+15550100")
	tester.Eq(t, got["callee_name"].(string), "Dana, Sam")
	tester.Eq(t, got["agent_name"].(string), "Nexus Assistant")
	tester.Eq(t, got["organization"].(string), "Nexus")
	_, hasAction := got["action"]
	tester.True(t, hasAction, "payload keeps the 'action' field name")
}

func TestPlaceCall_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "trunk unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testService(srv.URL).PlaceCall(context.Background(), sampleCall())
	tester.Err(t, err)
}

func TestPlaceCall_EmptyNumberIsNotConfigured(t *testing.T) {
	req := sampleCall()
	req.PhoneNumber = ""
	_, err := testService("http://unused").PlaceCall(context.Background(), req)
	tester.ErrIs(t, err, channels.ErrNotConfigured)
}
