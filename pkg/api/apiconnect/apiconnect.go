// Package apiconnect holds the Connect handler and client constructors of the
// tripsplit services. Every constructor installs api.Codec.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/pkg/api"
)

// Fully-qualified service names.
const (
	TripServiceName        = "tripsplit.v1.TripService"
	TransactionServiceName = "tripsplit.v1.TransactionService"
	SettlementServiceName  = "tripsplit.v1.SettlementService"
	PublicServiceName      = "tripsplit.v1.PublicService"
	AuthServiceName        = "tripsplit.v1.AuthService"
	ReceiptServiceName     = "tripsplit.v1.ReceiptService"
)

// Procedure paths, usable with connect.Spec.Procedure.
const (
	TripServiceCreateTripProcedure               = "/tripsplit.v1.TripService/CreateTrip"
	TripServiceListTripsProcedure                = "/tripsplit.v1.TripService/ListTrips"
	TripServiceGetTripProcedure                  = "/tripsplit.v1.TripService/GetTrip"
	TripServiceAddMemberProcedure                = "/tripsplit.v1.TripService/AddMember"
	TripServiceDeleteTripProcedure               = "/tripsplit.v1.TripService/DeleteTrip"
	TripServiceCloseTripProcedure                = "/tripsplit.v1.TripService/CloseTrip"
	TripServiceReopenTripProcedure               = "/tripsplit.v1.TripService/ReopenTrip"
	TransactionServiceListTransactionsProcedure  = "/tripsplit.v1.TransactionService/ListTransactions"
	TransactionServiceCreateTransactionProcedure = "/tripsplit.v1.TransactionService/CreateTransaction"
	TransactionServiceUpdateTransactionProcedure = "/tripsplit.v1.TransactionService/UpdateTransaction"
	TransactionServiceDeleteTransactionProcedure = "/tripsplit.v1.TransactionService/DeleteTransaction"
	SettlementServiceGetSettlementProcedure      = "/tripsplit.v1.SettlementService/GetSettlement"
	PublicServiceGetPublicTripProcedure          = "/tripsplit.v1.PublicService/GetPublicTrip"
	PublicServiceListPublicTransactionsProcedure = "/tripsplit.v1.PublicService/ListPublicTransactions"
	PublicServiceGetPublicSettlementProcedure    = "/tripsplit.v1.PublicService/GetPublicSettlement"
	AuthServiceRegisterProcedure                 = "/tripsplit.v1.AuthService/Register"
	AuthServiceLoginProcedure                    = "/tripsplit.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure           = "/tripsplit.v1.AuthService/GetCurrentUser"
	ReceiptServiceExtractReceiptProcedure        = "/tripsplit.v1.ReceiptService/ExtractReceipt"
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}

// TripServiceHandler is implemented by the server side of the TripService.
// Trip owners manage their trips and rosters.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error)
	CloseTrip(context.Context, *connect.Request[api.CloseTripRequest]) (*connect.Response[api.CloseTripResponse], error)
	ReopenTrip(context.Context, *connect.Request[api.ReopenTripRequest]) (*connect.Response[api.ReopenTripResponse], error)
}

// NewTripServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createTripHandler := connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...)
	listTripsHandler := connect.NewUnaryHandler(TripServiceListTripsProcedure, svc.ListTrips, opts...)
	getTripHandler := connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...)
	addMemberHandler := connect.NewUnaryHandler(TripServiceAddMemberProcedure, svc.AddMember, opts...)
	deleteTripHandler := connect.NewUnaryHandler(TripServiceDeleteTripProcedure, svc.DeleteTrip, opts...)
	closeTripHandler := connect.NewUnaryHandler(TripServiceCloseTripProcedure, svc.CloseTrip, opts...)
	reopenTripHandler := connect.NewUnaryHandler(TripServiceReopenTripProcedure, svc.ReopenTrip, opts...)
	return "/" + TripServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case TripServiceCreateTripProcedure:
			createTripHandler.ServeHTTP(w, r)
		case TripServiceListTripsProcedure:
			listTripsHandler.ServeHTTP(w, r)
		case TripServiceGetTripProcedure:
			getTripHandler.ServeHTTP(w, r)
		case TripServiceAddMemberProcedure:
			addMemberHandler.ServeHTTP(w, r)
		case TripServiceDeleteTripProcedure:
			deleteTripHandler.ServeHTTP(w, r)
		case TripServiceCloseTripProcedure:
			closeTripHandler.ServeHTTP(w, r)
		case TripServiceReopenTripProcedure:
			reopenTripHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// TripServiceClient is a client for the TripService.
type TripServiceClient interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error)
	CloseTrip(context.Context, *connect.Request[api.CloseTripRequest]) (*connect.Response[api.CloseTripResponse], error)
	ReopenTrip(context.Context, *connect.Request[api.ReopenTripRequest]) (*connect.Response[api.ReopenTripResponse], error)
}

type tripServiceClient struct {
	createTrip *connect.Client[api.CreateTripRequest, api.CreateTripResponse]
	listTrips  *connect.Client[api.ListTripsRequest, api.ListTripsResponse]
	getTrip    *connect.Client[api.GetTripRequest, api.GetTripResponse]
	addMember  *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	deleteTrip *connect.Client[api.DeleteTripRequest, api.DeleteTripResponse]
	closeTrip  *connect.Client[api.CloseTripRequest, api.CloseTripResponse]
	reopenTrip *connect.Client[api.ReopenTripRequest, api.ReopenTripResponse]
}

// NewTripServiceClient constructs a client for the TripService at baseURL.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TripServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &tripServiceClient{
		createTrip: connect.NewClient[api.CreateTripRequest, api.CreateTripResponse](httpClient, baseURL+TripServiceCreateTripProcedure, opts...),
		listTrips:  connect.NewClient[api.ListTripsRequest, api.ListTripsResponse](httpClient, baseURL+TripServiceListTripsProcedure, opts...),
		getTrip:    connect.NewClient[api.GetTripRequest, api.GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, opts...),
		addMember:  connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+TripServiceAddMemberProcedure, opts...),
		deleteTrip: connect.NewClient[api.DeleteTripRequest, api.DeleteTripResponse](httpClient, baseURL+TripServiceDeleteTripProcedure, opts...),
		closeTrip:  connect.NewClient[api.CloseTripRequest, api.CloseTripResponse](httpClient, baseURL+TripServiceCloseTripProcedure, opts...),
		reopenTrip: connect.NewClient[api.ReopenTripRequest, api.ReopenTripResponse](httpClient, baseURL+TripServiceReopenTripProcedure, opts...),
	}
}

func (c *tripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *tripServiceClient) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	return c.deleteTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) CloseTrip(ctx context.Context, req *connect.Request[api.CloseTripRequest]) (*connect.Response[api.CloseTripResponse], error) {
	return c.closeTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) ReopenTrip(ctx context.Context, req *connect.Request[api.ReopenTripRequest]) (*connect.Response[api.ReopenTripResponse], error) {
	return c.reopenTrip.CallUnary(ctx, req)
}

// TransactionServiceHandler is implemented by the server side of the TransactionService.
// Trip owners record the expenses of an open trip.
type TransactionServiceHandler interface {
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
}

// NewTransactionServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewTransactionServiceHandler(svc TransactionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listTransactionsHandler := connect.NewUnaryHandler(TransactionServiceListTransactionsProcedure, svc.ListTransactions, opts...)
	createTransactionHandler := connect.NewUnaryHandler(TransactionServiceCreateTransactionProcedure, svc.CreateTransaction, opts...)
	updateTransactionHandler := connect.NewUnaryHandler(TransactionServiceUpdateTransactionProcedure, svc.UpdateTransaction, opts...)
	deleteTransactionHandler := connect.NewUnaryHandler(TransactionServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...)
	return "/" + TransactionServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case TransactionServiceListTransactionsProcedure:
			listTransactionsHandler.ServeHTTP(w, r)
		case TransactionServiceCreateTransactionProcedure:
			createTransactionHandler.ServeHTTP(w, r)
		case TransactionServiceUpdateTransactionProcedure:
			updateTransactionHandler.ServeHTTP(w, r)
		case TransactionServiceDeleteTransactionProcedure:
			deleteTransactionHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// TransactionServiceClient is a client for the TransactionService.
type TransactionServiceClient interface {
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
}

type transactionServiceClient struct {
	listTransactions  *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	createTransaction *connect.Client[api.CreateTransactionRequest, api.CreateTransactionResponse]
	updateTransaction *connect.Client[api.UpdateTransactionRequest, api.UpdateTransactionResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
}

// NewTransactionServiceClient constructs a client for the TransactionService at baseURL.
func NewTransactionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TransactionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &transactionServiceClient{
		listTransactions:  connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+TransactionServiceListTransactionsProcedure, opts...),
		createTransaction: connect.NewClient[api.CreateTransactionRequest, api.CreateTransactionResponse](httpClient, baseURL+TransactionServiceCreateTransactionProcedure, opts...),
		updateTransaction: connect.NewClient[api.UpdateTransactionRequest, api.UpdateTransactionResponse](httpClient, baseURL+TransactionServiceUpdateTransactionProcedure, opts...),
		deleteTransaction: connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL+TransactionServiceDeleteTransactionProcedure, opts...),
	}
}

func (c *transactionServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *transactionServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	return c.updateTransaction.CallUnary(ctx, req)
}

func (c *transactionServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

// SettlementServiceHandler is implemented by the server side of the SettlementService.
// Trip owners read the settlement of a closed trip.
type SettlementServiceHandler interface {
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getSettlementHandler := connect.NewUnaryHandler(SettlementServiceGetSettlementProcedure, svc.GetSettlement, opts...)
	return "/" + SettlementServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceGetSettlementProcedure:
			getSettlementHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// SettlementServiceClient is a client for the SettlementService.
type SettlementServiceClient interface {
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
}

type settlementServiceClient struct {
	getSettlement *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
}

// NewSettlementServiceClient constructs a client for the SettlementService at baseURL.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &settlementServiceClient{
		getSettlement: connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](httpClient, baseURL+SettlementServiceGetSettlementProcedure, opts...),
	}
}

func (c *settlementServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

// PublicServiceHandler is implemented by the server side of the PublicService.
// Anyone holding a public slug reads a trip without signing in.
type PublicServiceHandler interface {
	GetPublicTrip(context.Context, *connect.Request[api.GetPublicTripRequest]) (*connect.Response[api.GetPublicTripResponse], error)
	ListPublicTransactions(context.Context, *connect.Request[api.ListPublicTransactionsRequest]) (*connect.Response[api.ListPublicTransactionsResponse], error)
	GetPublicSettlement(context.Context, *connect.Request[api.GetPublicSettlementRequest]) (*connect.Response[api.GetPublicSettlementResponse], error)
}

// NewPublicServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewPublicServiceHandler(svc PublicServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getPublicTripHandler := connect.NewUnaryHandler(PublicServiceGetPublicTripProcedure, svc.GetPublicTrip, opts...)
	listPublicTransactionsHandler := connect.NewUnaryHandler(PublicServiceListPublicTransactionsProcedure, svc.ListPublicTransactions, opts...)
	getPublicSettlementHandler := connect.NewUnaryHandler(PublicServiceGetPublicSettlementProcedure, svc.GetPublicSettlement, opts...)
	return "/" + PublicServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PublicServiceGetPublicTripProcedure:
			getPublicTripHandler.ServeHTTP(w, r)
		case PublicServiceListPublicTransactionsProcedure:
			listPublicTransactionsHandler.ServeHTTP(w, r)
		case PublicServiceGetPublicSettlementProcedure:
			getPublicSettlementHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// PublicServiceClient is a client for the PublicService.
type PublicServiceClient interface {
	GetPublicTrip(context.Context, *connect.Request[api.GetPublicTripRequest]) (*connect.Response[api.GetPublicTripResponse], error)
	ListPublicTransactions(context.Context, *connect.Request[api.ListPublicTransactionsRequest]) (*connect.Response[api.ListPublicTransactionsResponse], error)
	GetPublicSettlement(context.Context, *connect.Request[api.GetPublicSettlementRequest]) (*connect.Response[api.GetPublicSettlementResponse], error)
}

type publicServiceClient struct {
	getPublicTrip          *connect.Client[api.GetPublicTripRequest, api.GetPublicTripResponse]
	listPublicTransactions *connect.Client[api.ListPublicTransactionsRequest, api.ListPublicTransactionsResponse]
	getPublicSettlement    *connect.Client[api.GetPublicSettlementRequest, api.GetPublicSettlementResponse]
}

// NewPublicServiceClient constructs a client for the PublicService at baseURL.
func NewPublicServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PublicServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &publicServiceClient{
		getPublicTrip:          connect.NewClient[api.GetPublicTripRequest, api.GetPublicTripResponse](httpClient, baseURL+PublicServiceGetPublicTripProcedure, opts...),
		listPublicTransactions: connect.NewClient[api.ListPublicTransactionsRequest, api.ListPublicTransactionsResponse](httpClient, baseURL+PublicServiceListPublicTransactionsProcedure, opts...),
		getPublicSettlement:    connect.NewClient[api.GetPublicSettlementRequest, api.GetPublicSettlementResponse](httpClient, baseURL+PublicServiceGetPublicSettlementProcedure, opts...),
	}
}

func (c *publicServiceClient) GetPublicTrip(ctx context.Context, req *connect.Request[api.GetPublicTripRequest]) (*connect.Response[api.GetPublicTripResponse], error) {
	return c.getPublicTrip.CallUnary(ctx, req)
}

func (c *publicServiceClient) ListPublicTransactions(ctx context.Context, req *connect.Request[api.ListPublicTransactionsRequest]) (*connect.Response[api.ListPublicTransactionsResponse], error) {
	return c.listPublicTransactions.CallUnary(ctx, req)
}

func (c *publicServiceClient) GetPublicSettlement(ctx context.Context, req *connect.Request[api.GetPublicSettlementRequest]) (*connect.Response[api.GetPublicSettlementResponse], error) {
	return c.getPublicSettlement.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by the server side of the AuthService.
// Accounts of trip owners.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	registerHandler := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	loginHandler := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	getCurrentUserHandler := connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...)
	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			registerHandler.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			loginHandler.ServeHTTP(w, r)
		case AuthServiceGetCurrentUserProcedure:
			getCurrentUserHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// AuthServiceClient is a client for the AuthService.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

type authServiceClient struct {
	register       *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login          *connect.Client[api.LoginRequest, api.LoginResponse]
	getCurrentUser *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
}

// NewAuthServiceClient constructs a client for the AuthService at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		register:       connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// ReceiptServiceHandler is implemented by the server side of the ReceiptService.
// Receipt image extraction.
type ReceiptServiceHandler interface {
	ExtractReceipt(context.Context, *connect.Request[api.ExtractReceiptRequest]) (*connect.Response[api.ExtractReceiptResponse], error)
}

// NewReceiptServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewReceiptServiceHandler(svc ReceiptServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	extractReceiptHandler := connect.NewUnaryHandler(ReceiptServiceExtractReceiptProcedure, svc.ExtractReceipt, opts...)
	return "/" + ReceiptServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ReceiptServiceExtractReceiptProcedure:
			extractReceiptHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// ReceiptServiceClient is a client for the ReceiptService.
type ReceiptServiceClient interface {
	ExtractReceipt(context.Context, *connect.Request[api.ExtractReceiptRequest]) (*connect.Response[api.ExtractReceiptResponse], error)
}

type receiptServiceClient struct {
	extractReceipt *connect.Client[api.ExtractReceiptRequest, api.ExtractReceiptResponse]
}

// NewReceiptServiceClient constructs a client for the ReceiptService at baseURL.
func NewReceiptServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ReceiptServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &receiptServiceClient{
		extractReceipt: connect.NewClient[api.ExtractReceiptRequest, api.ExtractReceiptResponse](httpClient, baseURL+ReceiptServiceExtractReceiptProcedure, opts...),
	}
}

func (c *receiptServiceClient) ExtractReceipt(ctx context.Context, req *connect.Request[api.ExtractReceiptRequest]) (*connect.Response[api.ExtractReceiptResponse], error) {
	return c.extractReceipt.CallUnary(ctx, req)
}
