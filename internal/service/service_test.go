package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

const testOwner = "owner-1"

// testServer runs every service on an httptest server backed by a temp database.
type testServer struct {
	url   string
	store *sqlite.SQLiteStore
	jwt   *auth.JWTManager
}

// clients are the service clients of one caller.
type clients struct {
	trips       apiconnect.TripServiceClient
	txns        apiconnect.TransactionServiceClient
	settlements apiconnect.SettlementServiceClient
	public      apiconnect.PublicServiceClient
	auth        apiconnect.AuthServiceClient
	receipts    apiconnect.ReceiptServiceClient
}

func setupTestServer(t *testing.T, extractor ReceiptExtractor) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	rec := ledger.NewRecomputer(store)
	settler := NewSettler(calculator.DefaultOptions(), nil)

	authed := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, middleware.WithDevFallback(true)),
		middleware.LoggingInterceptor(),
	)
	authOpts := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, middleware.WithPublicProcedures(
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		)),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewTripServiceHandler(NewTripService(store, rec), authed))
	mux.Handle(apiconnect.NewTransactionServiceHandler(NewTransactionService(store, rec), authed))
	mux.Handle(apiconnect.NewSettlementServiceHandler(NewSettlementService(store, settler), authed))
	mux.Handle(apiconnect.NewPublicServiceHandler(NewPublicService(store, settler)))
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, nil), authOpts))
	mux.Handle(apiconnect.NewReceiptServiceHandler(NewReceiptService(extractor), authed))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{url: server.URL, store: store, jwt: jwtManager}
}

// as returns clients that identify as owner through the dev header.
// An empty owner sends no identity.
func (s *testServer) as(owner string) *clients {
	opt := connect.WithInterceptors(connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if owner != "" {
				req.Header().Set(middleware.DevOwnerHeader, owner)
			}
			return next(ctx, req)
		}
	}))
	return s.clients(opt)
}

// withToken returns clients that send a bearer token.
func (s *testServer) withToken(token string) *clients {
	opt := connect.WithInterceptors(connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}))
	return s.clients(opt)
}

func (s *testServer) clients(opt connect.ClientOption) *clients {
	return &clients{
		trips:       apiconnect.NewTripServiceClient(http.DefaultClient, s.url, opt),
		txns:        apiconnect.NewTransactionServiceClient(http.DefaultClient, s.url, opt),
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, s.url, opt),
		public:      apiconnect.NewPublicServiceClient(http.DefaultClient, s.url, opt),
		auth:        apiconnect.NewAuthServiceClient(http.DefaultClient, s.url, opt),
		receipts:    apiconnect.NewReceiptServiceClient(http.DefaultClient, s.url, opt),
	}
}

func createTrip(t *testing.T, c *clients, name string, members ...string) *models.Trip {
	t.Helper()
	resp, err := c.trips.CreateTrip(context.Background(), connect.NewRequest(&api.CreateTripRequest{
		Name:    name,
		Members: members,
	}))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return resp.Msg.Trip
}

func createTransaction(t *testing.T, c *clients, req *api.CreateTransactionRequest) *api.CreateTransactionResponse {
	t.Helper()
	resp, err := c.txns.CreateTransaction(context.Background(), connect.NewRequest(req))
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	return resp.Msg
}

func closeTrip(t *testing.T, c *clients, tripID string) *models.Trip {
	t.Helper()
	resp, err := c.trips.CloseTrip(context.Background(), connect.NewRequest(&api.CloseTripRequest{TripID: tripID}))
	if err != nil {
		t.Fatalf("CloseTrip failed: %v", err)
	}
	return resp.Msg.Trip
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil error", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}

func balances(members []models.Member) map[string]float64 {
	out := make(map[string]float64, len(members))
	for _, m := range members {
		out[m.Name] = m.Balance
	}
	return out
}

func expectBalances(t *testing.T, members []models.Member, want map[string]float64) {
	t.Helper()
	got := balances(members)
	if len(got) != len(want) {
		t.Fatalf("members: expected %v, got %v", want, got)
	}
	for name, w := range want {
		if g, ok := got[name]; !ok || g != w {
			t.Errorf("balance of %s: expected %.2f, got %.2f (present=%v)", name, w, g, ok)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	srv := setupTestServer(t, nil)

	_, err := srv.as("").trips.ListTrips(context.Background(), connect.NewRequest(&api.ListTripsRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)

	_, err = srv.withToken("not-a-token").trips.ListTrips(context.Background(), connect.NewRequest(&api.ListTripsRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)

	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T", err)
	}
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{ErrTripClosed, connect.CodeFailedPrecondition},
		{ErrTripNotClosed, connect.CodePermissionDenied},
		{ErrForbidden, connect.CodePermissionDenied},
		{ErrInvalidInput, connect.CodeInvalidArgument},
		{context.DeadlineExceeded, connect.CodeDeadlineExceeded},
		{errors.New("boom"), connect.CodeInternal},
		{connect.NewError(connect.CodeAborted, errors.New("x")), connect.CodeAborted},
	}
	for _, tt := range tests {
		if got := toConnectError(tt.err).Code(); got != tt.want {
			t.Errorf("%v: expected %v, got %v", tt.err, tt.want, got)
		}
	}

	if got := toConnectError(ErrTripNotClosed).Meta().Get(TripClosedHeader); got != "false" {
		t.Errorf("expected %s: false, got %q", TripClosedHeader, got)
	}
}
