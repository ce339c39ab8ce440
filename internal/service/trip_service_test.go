package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/pkg/api"
)

func TestCreateTrip(t *testing.T) {
	c := setupTestServer(t, nil).as(testOwner)

	trip := createTrip(t, c, "  Goa 2025 ", " Alice ", "", "Bob", "   ")

	if trip.ID == "" {
		t.Error("expected non-empty trip ID")
	}
	if trip.Name != "Goa 2025" {
		t.Errorf("name: expected 'Goa 2025', got '%s'", trip.Name)
	}
	if trip.OwnerID != testOwner {
		t.Errorf("owner: expected %s, got %s", testOwner, trip.OwnerID)
	}
	if trip.PublicSlug == "" {
		t.Error("expected a public slug")
	}
	if trip.IsClosed {
		t.Error("expected new trip to be open")
	}
	want := []models.Member{{Name: "Alice"}, {Name: "Bob"}}
	if len(trip.Members) != len(want) {
		t.Fatalf("members: expected %v, got %v", want, trip.Members)
	}
	for i := range want {
		if trip.Members[i] != want[i] {
			t.Errorf("member %d: expected %v, got %v", i, want[i], trip.Members[i])
		}
	}
}

func TestCreateTrip_Invalid(t *testing.T) {
	c := setupTestServer(t, nil).as(testOwner)

	_, err := c.trips.CreateTrip(context.Background(), connect.NewRequest(&api.CreateTripRequest{Name: "   "}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = c.trips.CreateTrip(context.Background(), connect.NewRequest(&api.CreateTripRequest{
		Name:    "Dupes",
		Members: []string{"Alice", "alice "},
	}))
	expectCode(t, err, connect.CodeAlreadyExists)
}

func TestGetTrip_OtherOwner(t *testing.T) {
	srv := setupTestServer(t, nil)
	trip := createTrip(t, srv.as(testOwner), "Mine", "Alice")

	_, err := srv.as("someone-else").trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = srv.as(testOwner).trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: "missing"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestListTrips(t *testing.T) {
	srv := setupTestServer(t, nil)
	mine := srv.as(testOwner)

	first := createTrip(t, mine, "First")
	second := createTrip(t, mine, "Second")
	createTrip(t, srv.as("other"), "Not mine")

	resp, err := mine.trips.ListTrips(context.Background(), connect.NewRequest(&api.ListTripsRequest{}))
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(resp.Msg.Trips) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(resp.Msg.Trips))
	}
	if resp.Msg.Trips[0].ID != second.ID || resp.Msg.Trips[1].ID != first.ID {
		t.Errorf("expected newest first, got %s then %s", resp.Msg.Trips[0].Name, resp.Msg.Trips[1].Name)
	}
}

func TestListTrips_Empty(t *testing.T) {
	c := setupTestServer(t, nil).as(testOwner)

	resp, err := c.trips.ListTrips(context.Background(), connect.NewRequest(&api.ListTripsRequest{}))
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if resp.Msg.Trips == nil || len(resp.Msg.Trips) != 0 {
		t.Errorf("expected empty list, got %v", resp.Msg.Trips)
	}
}

func TestAddMember(t *testing.T) {
	c := setupTestServer(t, nil).as(testOwner)
	trip := createTrip(t, c, "Trip", "Alice")

	resp, err := c.trips.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{TripID: trip.ID, Name: "  Bob "}))
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if len(resp.Msg.Trip.Members) != 2 || resp.Msg.Trip.Members[1].Name != "Bob" {
		t.Errorf("expected Bob appended, got %v", resp.Msg.Trip.Members)
	}

	_, err = c.trips.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{TripID: trip.ID, Name: "ALICE"}))
	expectCode(t, err, connect.CodeAlreadyExists)

	_, err = c.trips.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{TripID: trip.ID, Name: " "}))
	expectCode(t, err, connect.CodeInvalidArgument)

	closeTrip(t, c, trip.ID)
	_, err = c.trips.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{TripID: trip.ID, Name: "Cara"}))
	expectCode(t, err, connect.CodeFailedPrecondition)
}

func TestCloseAndReopenTrip(t *testing.T) {
	c := setupTestServer(t, nil).as(testOwner)
	trip := createTrip(t, c, "Trip", "Alice")

	closed := closeTrip(t, c, trip.ID)
	if !closed.IsClosed || closed.EndedAt == 0 {
		t.Fatalf("expected closed trip with EndedAt, got closed=%v ended_at=%d", closed.IsClosed, closed.EndedAt)
	}

	again := closeTrip(t, c, trip.ID)
	if again.EndedAt != closed.EndedAt {
		t.Errorf("closing twice changed EndedAt: %d -> %d", closed.EndedAt, again.EndedAt)
	}

	resp, err := c.trips.ReopenTrip(context.Background(), connect.NewRequest(&api.ReopenTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("ReopenTrip failed: %v", err)
	}
	if resp.Msg.Trip.IsClosed || resp.Msg.Trip.EndedAt != 0 {
		t.Errorf("expected open trip without EndedAt, got closed=%v ended_at=%d", resp.Msg.Trip.IsClosed, resp.Msg.Trip.EndedAt)
	}

	resp, err = c.trips.ReopenTrip(context.Background(), connect.NewRequest(&api.ReopenTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("ReopenTrip on open trip failed: %v", err)
	}
	if resp.Msg.Trip.IsClosed {
		t.Error("expected trip to stay open")
	}
}

func TestDeleteTrip(t *testing.T) {
	srv := setupTestServer(t, nil)
	c := srv.as(testOwner)
	trip := createTrip(t, c, "Trip", "Alice", "Bob")
	txn := createTransaction(t, c, &api.CreateTransactionRequest{
		TripID:       trip.ID,
		Title:        "Taxi",
		Payers:       []models.Payer{{Name: "Alice", Amount: 20}},
		Participants: []string{"Alice", "Bob"},
		SplitType:    models.SplitEqual,
	})

	_, err := srv.as("other").trips.DeleteTrip(context.Background(), connect.NewRequest(&api.DeleteTripRequest{TripID: trip.ID}))
	expectCode(t, err, connect.CodeNotFound)

	resp, err := c.trips.DeleteTrip(context.Background(), connect.NewRequest(&api.DeleteTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("DeleteTrip failed: %v", err)
	}
	if !resp.Msg.OK {
		t.Error("expected ok")
	}

	_, err = c.trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	expectCode(t, err, connect.CodeNotFound)

	if _, err := srv.store.GetTransaction(context.Background(), txn.Transaction.ID); err == nil {
		t.Error("expected transactions of a deleted trip to be gone")
	}
}
