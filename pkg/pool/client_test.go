package pool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	apperrors "github.com/mmchougule/private-position-ee/pkg/app/errors"
	"github.com/mmchougule/private-position-ee/pkg/privacy"
)

const (
	testMainAddress = "0x1111111111111111111111111111111111111111"
	testRef         = "0x" + "ab" + "00000000000000000000000000000000000000000000000000000000000000"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient() = %v, want nil", err)
	}
	return client, srv
}

func TestClient_Shield(t *testing.T) {
	var gotBody shieldRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/shield" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(operationResponse{OperationRef: testRef, State: "submitted"})
	}))

	op, err := client.Shield(context.Background(), privacy.ShieldRequest{
		Source:    testMainAddress,
		Token:     "USDC",
		Amount:    "10000",
		NetworkID: 1,
	})
	if err != nil {
		t.Fatalf("Shield() = %v, want nil", err)
	}

	if op.Ref != testRef {
		t.Errorf("Ref = %s, want %s", op.Ref, testRef)
	}
	if op.Kind != privacy.KindShield {
		t.Errorf("Kind = %s, want %s", op.Kind, privacy.KindShield)
	}
	if op.State != privacy.StateSubmitted {
		t.Errorf("State = %s, want %s", op.State, privacy.StateSubmitted)
	}
	if op.Source != testMainAddress {
		t.Errorf("Source = %s, want %s", op.Source, testMainAddress)
	}
	if gotBody.Amount != "10000" || gotBody.Token != "USDC" {
		t.Errorf("request body = %+v, want amount 10000 token USDC", gotBody)
	}
}

func TestClient_ShieldRejectedBySubmission(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "insufficient public balance"})
	}))

	_, err := client.Shield(context.Background(), privacy.ShieldRequest{
		Source:    testMainAddress,
		Token:     "USDC",
		Amount:    "10000",
		NetworkID: 1,
	})
	if !apperrors.Is(err, apperrors.CategorySubmissionFailed) {
		t.Fatalf("Shield() = %v, want CategorySubmissionFailed", err)
	}
	if !strings.Contains(err.Error(), "insufficient public balance") {
		t.Errorf("error %q does not carry the provider message", err.Error())
	}
}

func TestClient_ShieldValidatesBeforeRequest(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))

	tests := []privacy.ShieldRequest{
		{Source: "not-an-address", Token: "USDC", Amount: "10", NetworkID: 1},
		{Source: testMainAddress, Token: "USDC", Amount: "0", NetworkID: 1},
		{Source: testMainAddress, Token: "USDC", Amount: "-5", NetworkID: 1},
		{Source: testMainAddress, Token: "", Amount: "10", NetworkID: 1},
	}
	for _, req := range tests {
		if _, err := client.Shield(context.Background(), req); !apperrors.Is(err, apperrors.CategoryInvalidInput) {
			t.Errorf("Shield(%+v) = %v, want CategoryInvalidInput", req, err)
		}
	}

	if n := calls.Load(); n != 0 {
		t.Errorf("provider received %d requests, want 0 for invalid input", n)
	}
}

func TestClient_Unshield(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/unshield" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(operationResponse{OperationRef: testRef, State: "submitted"})
	}))

	op, err := client.Unshield(context.Background(), privacy.UnshieldRequest{
		Destination: testMainAddress,
		Token:       "USDC",
		Amount:      "10000",
		NetworkID:   1,
	})
	if err != nil {
		t.Fatalf("Unshield() = %v, want nil", err)
	}
	if op.Kind != privacy.KindUnshield {
		t.Errorf("Kind = %s, want %s", op.Kind, privacy.KindUnshield)
	}
	if op.Destination != testMainAddress {
		t.Errorf("Destination = %s, want %s", op.Destination, testMainAddress)
	}
}

func TestClient_OperationState(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/operations/"+testRef {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(operationStateResponse{State: "confirming"})
	}))

	state, err := client.OperationState(context.Background(), testRef)
	if err != nil {
		t.Fatalf("OperationState() = %v, want nil", err)
	}
	if state != privacy.StateConfirming {
		t.Errorf("state = %s, want %s", state, privacy.StateConfirming)
	}
}

func TestClient_OperationStateUnknownState(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(operationStateResponse{State: "teleporting"})
	}))

	_, err := client.OperationState(context.Background(), testRef)
	if !apperrors.Is(err, apperrors.CategoryDependencyFailure) {
		t.Errorf("OperationState() = %v, want CategoryDependencyFailure", err)
	}
}

func TestClient_ShieldedBalance(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("address") != testMainAddress || q.Get("token") != "USDC" || q.Get("network_id") != "1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(balanceResponse{Balance: "10000"})
	}))

	balance, err := client.ShieldedBalance(context.Background(), testMainAddress, "USDC", 1)
	if err != nil {
		t.Fatalf("ShieldedBalance() = %v, want nil", err)
	}
	if balance != "10000" {
		t.Errorf("balance = %s, want 10000", balance)
	}
}

func TestClient_ProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient() = %v, want nil", err)
	}

	_, err = client.ShieldedBalance(context.Background(), testMainAddress, "USDC", 1)
	if !apperrors.Is(err, apperrors.CategoryDependencyFailure) {
		t.Errorf("ShieldedBalance() = %v, want CategoryDependencyFailure", err)
	}
}
