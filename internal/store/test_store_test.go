package store

import (
	"context"
	"testing"

	"nexus/internal/dispatch"
	"nexus/internal/tester"
	"nexus/internal/types"
)

// Persistence is optional, so the nil store must be safe to call everywhere.
func TestNilStore_AllOperationsNoOp(t *testing.T) {
	var s *Store
	ctx := context.Background()

	tester.NoErr(t, s.SaveLinkedProjects(ctx, []types.LinkedProject{{Name: "p"}}))

	actions, err := s.ListActions(ctx, "p")
	tester.NoErr(t, err)
	tester.Eq(t, len(actions), 0)

	tester.NoErr(t, s.RecordDispatch(ctx, &dispatch.DispatchResult{
		Tickets: []dispatch.TicketResult{{Project: "p", Status: dispatch.StatusCreated}},
	}))
	tester.NoErr(t, s.Close())
}

func TestNewFromEnv_EmptyDSNYieldsNilStore(t *testing.T) {
	t.Setenv("ACTION_STORE_PG_DSN", "")
	tester.True(t, NewFromEnv() == nil)
}

func TestRecordDispatch_NilResultNoOp(t *testing.T) {
	var s *Store
	tester.NoErr(t, s.RecordDispatch(context.Background(), nil))
}
