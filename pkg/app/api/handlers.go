package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/mmchougule/private-position-ee/pkg/app/errors"
	apphttp "github.com/mmchougule/private-position-ee/pkg/app/http"
	"github.com/mmchougule/private-position-ee/pkg/privacy"
	"github.com/mmchougule/private-position-ee/pkg/trading"
)

// Handler exposes the trading service over HTTP.
type Handler struct {
	svc      *trading.Service
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(svc *trading.Service, logger *zap.Logger) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
		logger:   logger,
	}
}

type deriveWalletRequest struct {
	MainAddress string `json:"main_address" validate:"required"`
	Label       string `json:"label"`
}

type fundsRequest struct {
	MainAddress      string  `json:"main_address"`
	IncognitoAddress string  `json:"incognito_address"`
	Token            string  `json:"token" validate:"required"`
	Amount           string  `json:"amount" validate:"required"`
	SlippagePct      float64 `json:"slippage_pct"`
	AutoUnshield     *bool   `json:"auto_unshield,omitempty"`
	MaxIndexingWait  string  `json:"max_indexing_wait,omitempty"`
}

type waitRequest struct {
	MaxWait string `json:"max_wait,omitempty"`
}

type waitResponse struct {
	OperationRef string                 `json:"operation_ref"`
	State        privacy.OperationState `json:"state"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) error {
	return apphttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) deriveWallet(w http.ResponseWriter, r *http.Request) error {
	var req deriveWalletRequest
	if err := h.decode(r, &req); err != nil {
		return err
	}

	wallet, err := h.svc.DeriveIncognitoWallet(r.Context(), req.MainAddress, req.Label)
	if err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusCreated, wallet)
}

func (h *Handler) prepareFunds(w http.ResponseWriter, r *http.Request) error {
	req, cfg, err := h.decodeFunds(r)
	if err != nil {
		return err
	}
	if req.MainAddress == "" {
		return apperrors.InvalidInput(nil, "main_address is required")
	}

	op, err := h.svc.PreparePrivateFunds(r.Context(), req.MainAddress, cfg)
	if err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusAccepted, op)
}

func (h *Handler) unshieldForTrading(w http.ResponseWriter, r *http.Request) error {
	req, cfg, err := h.decodeFunds(r)
	if err != nil {
		return err
	}

	op, err := h.svc.UnshieldForTrading(r.Context(), h.walletFrom(req), cfg)
	if err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusAccepted, op)
}

func (h *Handler) exitPosition(w http.ResponseWriter, r *http.Request) error {
	req, cfg, err := h.decodeFunds(r)
	if err != nil {
		return err
	}

	op, err := h.svc.ExitPrivatePosition(r.Context(), h.walletFrom(req), cfg)
	if err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusAccepted, op)
}

func (h *Handler) fundsStatus(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	snapshot := h.svc.CheckPrivateFundsStatus(r.Context(),
		q.Get("main_address"),
		q.Get("incognito_address"),
		q.Get("token"))
	return apphttp.WriteJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) waitConfirmation(w http.ResponseWriter, r *http.Request) error {
	ref := chi.URLParam(r, "ref")

	var req waitRequest
	if r.ContentLength > 0 {
		if err := h.decode(r, &req); err != nil {
			return err
		}
	}

	var maxWait time.Duration
	if req.MaxWait != "" {
		d, err := time.ParseDuration(req.MaxWait)
		if err != nil {
			return apperrors.InvalidInput(err, "invalid max_wait duration")
		}
		maxWait = d
	}

	state, err := h.svc.WaitForTransactionConfirmation(r.Context(), ref, maxWait)
	if err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusOK, waitResponse{OperationRef: ref, State: state})
}

func (h *Handler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.InvalidInput(err, "invalid request body")
	}
	if err := h.validate.Struct(v); err != nil {
		return apperrors.InvalidInput(err, "invalid request")
	}
	return nil
}

func (h *Handler) decodeFunds(r *http.Request) (*fundsRequest, privacy.TradeConfig, error) {
	var req fundsRequest
	if err := h.decode(r, &req); err != nil {
		return nil, privacy.TradeConfig{}, err
	}

	cfg := privacy.TradeConfig{
		Token:        req.Token,
		Amount:       req.Amount,
		SlippagePct:  req.SlippagePct,
		AutoUnshield: req.AutoUnshield,
	}
	if req.MaxIndexingWait != "" {
		d, err := time.ParseDuration(req.MaxIndexingWait)
		if err != nil {
			return nil, privacy.TradeConfig{}, apperrors.InvalidInput(err, "invalid max_indexing_wait duration")
		}
		cfg.MaxIndexingWait = d
	}
	return &req, cfg, nil
}

// walletFrom reconstructs the wallet identity pair from a request. Missing
// fields surface as InvalidInput from the service's own validation.
func (h *Handler) walletFrom(req *fundsRequest) *privacy.IncognitoWallet {
	return &privacy.IncognitoWallet{
		Address:     req.IncognitoAddress,
		MainAddress: req.MainAddress,
		Active:      true,
	}
}
