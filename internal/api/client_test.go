package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token() (string, bool) {
	return s.token, s.token != ""
}

func TestEnvelopeDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wallet/w-1/balance" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"balance":42.50,"utxo_count":3}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	bal, err := c.GetBalance(context.Background(), "w-1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if bal.Balance.String() != "42.5" || bal.UTXOCount != 3 {
		t.Fatalf("unexpected balance: %+v", bal)
	}
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens{token: "tok-123"})
	if _, err := c.ListBeneficiaries(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
}

func TestNoBearerWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens{})
	if err := c.SendOTP(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestRemoteErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"data":null,"message":"insufficient balance in wallet"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.CreateTransaction(context.Background(), CreateTransactionRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got %T", err)
	}
	if re.Status != http.StatusBadRequest || re.Message != "insufficient balance in wallet" {
		t.Fatalf("unexpected remote error: %+v", re)
	}
	if err.Error() != "insufficient balance in wallet" {
		t.Fatalf("message not surfaced verbatim: %q", err.Error())
	}
}

func TestRemoteErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.GetChainInfo(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "request failed with status 500" {
		t.Fatalf("unexpected fallback message: %q", err.Error())
	}
}

func TestIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"data":null,"message":"wallet not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.GetWallet(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if IsUnauthorized(err) {
		t.Fatal("404 must not classify as unauthorized")
	}
}

func TestPaginationQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "20" || q.Get("offset") != "40" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if _, err := c.GetTransactions(context.Background(), "w-1", 20, 40); err != nil {
		t.Fatalf("get transactions: %v", err)
	}
}

func TestAmountsMarshalAsNumbers(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"data":{"hash":"h-1"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.CreateTransaction(context.Background(), CreateTransactionRequest{
		SenderWalletID:   "w-1",
		ReceiverWalletID: "w-2",
		Amount:           decimal.RequireFromString("9.80"),
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if !strings.Contains(string(body), `"amount":9.80`) {
		t.Fatalf("amount must be a JSON number, got body: %s", body)
	}
}
