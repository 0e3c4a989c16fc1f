// This file implements the HTTP endpoints of the gateway. The body of an
// invocation is a serialized signed transaction, so the clients keep their
// private key on their side and the daemon never sees it.
//
// Documentation Last Review: 25.08.2026
//

package controller

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.dedis.ch/custody/core/sandbox"
	"go.dedis.ch/custody/core/txn/signed"
	"go.dedis.ch/custody/crypto/ed25519"
	"go.dedis.ch/custody/proxy"
	serdej "go.dedis.ch/custody/serde/json"
)

// invokeResponse is the JSON response of an invocation.
type invokeResponse struct {
	Accepted bool            `json:"accepted"`
	Message  string          `json:"message"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// nonceResponse is the JSON response of a nonce request.
type nonceResponse struct {
	Nonce uint64 `json:"nonce"`
}

// handlers exposes the sandbox service over HTTP.
type handlers struct {
	srvc *sandbox.Service
	fac  signed.TransactionFactory
}

// registerHandlers registers the endpoints of the service on the proxy.
func registerHandlers(px proxy.Proxy, srvc *sandbox.Service) {
	h := handlers{
		srvc: srvc,
		fac:  signed.NewTransactionFactory(),
	}

	px.RegisterHandler("/invoke", h.invoke)
	px.RegisterHandler("/nonce", h.nonce)
}

// invoke submits the transaction of the request body to the sandbox and
// writes the execution result.
func (h handlers) invoke(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "only POST is allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read body: %v", err), http.StatusBadRequest)
		return
	}

	tx, err := h.fac.TransactionOf(serdej.NewContext(), body)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to decode transaction: %v", err), http.StatusBadRequest)
		return
	}

	res, err := h.srvc.Process(tx)
	if err != nil {
		http.Error(w, fmt.Sprintf("transaction refused: %v", err), http.StatusBadRequest)
		return
	}

	resp := invokeResponse{
		Accepted: res.Accepted,
		Message:  res.Message,
	}

	if len(res.Value) > 0 {
		resp.Value = json.RawMessage(res.Value)
	}

	writeJSON(w, resp)
}

// nonce writes the next nonce the service expects from the identity of the
// key parameter.
func (h handlers) nonce(w http.ResponseWriter, req *http.Request) {
	key, err := hex.DecodeString(req.URL.Query().Get("key"))
	if err != nil {
		http.Error(w, fmt.Sprintf("malformed key: %v", err), http.StatusBadRequest)
		return
	}

	pubkey, err := ed25519.NewPublicKey(key)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid key: %v", err), http.StatusBadRequest)
		return
	}

	nonce, err := h.srvc.GetNonce(pubkey)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to get nonce: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, nonceResponse{Nonce: nonce})
}

func writeJSON(w http.ResponseWriter, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(resp)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to write response: %v", err), http.StatusInternalServerError)
	}
}
