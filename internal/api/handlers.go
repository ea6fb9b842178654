/**
 * @description
 * This file contains the HTTP handlers for the donation-service's API
 * endpoints. Handlers are responsible for parsing incoming requests, calling
 * the appropriate methods on the application service or wallet session, and
 * writing the HTTP response. They act as the bridge between the web layer and
 * the business logic layer; all rendering beyond JSON stays with the clients.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/app, internal/domain, internal/quiz, internal/wallet.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/givechain/donation-service/internal/app"
	"github.com/givechain/donation-service/internal/domain"
	"github.com/givechain/donation-service/internal/quiz"
	"github.com/givechain/donation-service/internal/wallet"
)

// DonationHandlers holds the application service that handlers will use.
type DonationHandlers struct {
	service *app.Service
}

// NewDonationHandlers creates a new instance of DonationHandlers.
func NewDonationHandlers(service *app.Service) *DonationHandlers {
	return &DonationHandlers{service: service}
}

// sessionResponse mirrors the wallet snapshot with display-ready fields so
// clients do not need to re-implement address/balance formatting.
type sessionResponse struct {
	Address          string `json:"address"`
	AddressShort     string `json:"address_short"`
	Balance          string `json:"balance"` // smallest unit
	BalanceFormatted string `json:"balance_formatted"`
	ChainID          int64  `json:"chain_id"`
	ChainName        string `json:"chain_name"`
	Connected        bool   `json:"connected"`
	WrongNetwork     bool   `json:"wrong_network"`
	Busy             bool   `json:"busy"`
	LastError        string `json:"last_error,omitempty"`
}

// charityResponse augments a matched charity with its clamped progress
// percentage.
type charityResponse struct {
	domain.MatchedCharity
	ProgressPercent float64 `json:"progress_percent"`
}

func buildSessionResponse(snap wallet.Snapshot) sessionResponse {
	return sessionResponse{
		Address:          snap.Address,
		AddressShort:     wallet.FormatAddress(snap.Address),
		Balance:          snap.Balance,
		BalanceFormatted: wallet.FormatBalance(snap.Balance),
		ChainID:          snap.ChainID,
		ChainName:        wallet.ChainName(snap.ChainID),
		Connected:        snap.Connected,
		WrongNetwork:     snap.WrongNetwork,
		Busy:             snap.Busy,
		LastError:        snap.LastError,
	}
}

func buildCharityResponses(matched []domain.MatchedCharity) []charityResponse {
	out := make([]charityResponse, 0, len(matched))
	for _, m := range matched {
		out = append(out, charityResponse{MatchedCharity: m, ProgressPercent: m.ProgressPercent()})
	}
	return out
}

// SessionStatusHandler returns the current wallet session snapshot.
func (h *DonationHandlers) SessionStatusHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, buildSessionResponse(h.service.Session().Snapshot()))
}

// ConnectHandler asks the wallet session to connect.
func (h *DonationHandlers) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Session().Connect(r.Context()); err != nil {
		h.writeWalletError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, buildSessionResponse(h.service.Session().Snapshot()))
}

// DisconnectHandler clears the wallet session.
func (h *DonationHandlers) DisconnectHandler(w http.ResponseWriter, r *http.Request) {
	h.service.Session().Disconnect()
	h.writeJSON(w, http.StatusOK, buildSessionResponse(h.service.Session().Snapshot()))
}

type switchNetworkRequest struct {
	ChainID int64 `json:"chain_id"`
}

// SwitchNetworkHandler requests a provider network switch. The operation
// reports success as a boolean rather than an error, so the response always
// carries the resulting snapshot plus the switch outcome.
func (h *DonationHandlers) SwitchNetworkHandler(w http.ResponseWriter, r *http.Request) {
	var req switchNetworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid-request", "Invalid request body.")
		return
	}
	if req.ChainID == 0 {
		req.ChainID = h.service.Session().TargetChainID()
	}

	switched := h.service.Session().SwitchNetwork(r.Context(), req.ChainID)
	h.writeJSON(w, http.StatusOK, struct {
		Switched bool            `json:"switched"`
		Session  sessionResponse `json:"session"`
	}{switched, buildSessionResponse(h.service.Session().Snapshot())})
}

// ListCharitiesHandler returns the catalog ranked against the current quiz
// answers, optionally filtered by search text, category and verified flag.
func (h *DonationHandlers) ListCharitiesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := app.CharityFilter{
		Search:       q.Get("search"),
		Category:     q.Get("category"),
		VerifiedOnly: q.Get("verified") == "true",
	}
	h.writeJSON(w, http.StatusOK, buildCharityResponses(h.service.MatchedCharities(filter)))
}

// GetCharityHandler returns a single charity by id.
func (h *DonationHandlers) GetCharityHandler(w http.ResponseWriter, r *http.Request) {
	charity, err := h.service.CharityByID(chi.URLParam(r, "charityID"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "not-found", "Charity not found.")
		return
	}
	h.writeJSON(w, http.StatusOK, charityResponse{
		MatchedCharity:  domain.MatchedCharity{Charity: charity},
		ProgressPercent: charity.ProgressPercent(),
	})
}

// QuizStateHandler returns the quiz questions (shuffled order), answers and
// progress.
func (h *DonationHandlers) QuizStateHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Quiz().State())
}

type quizAnswerRequest struct {
	QuestionID string      `json:"question_id"`
	Value      interface{} `json:"value"`
}

// QuizAnswerHandler records one answer and persists the answer set.
func (h *DonationHandlers) QuizAnswerHandler(w http.ResponseWriter, r *http.Request) {
	var req quizAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid-request", "Invalid request body.")
		return
	}

	if err := h.service.Quiz().Answer(r.Context(), req.QuestionID, req.Value); err != nil {
		if errors.Is(err, quiz.ErrUnknownQuestion) {
			h.writeError(w, http.StatusNotFound, "unknown-question", "Unknown quiz question.")
			return
		}
		log.Printf("level=error component=api msg=\"quiz answer persist failed\" question=%s err=%v", req.QuestionID, err)
		h.writeError(w, http.StatusInternalServerError, "storage-error", "Could not save your answer.")
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.Quiz().State())
}

// QuizNextHandler advances the quiz one step. The current question must be
// answered first, matching the disabled-button gate in the UI.
func (h *DonationHandlers) QuizNextHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Quiz().Next(); err != nil {
		switch {
		case errors.Is(err, quiz.ErrStepNotAnswered):
			h.writeError(w, http.StatusConflict, "step-not-answered", "Answer the current question first.")
		case errors.Is(err, quiz.ErrQuizAlreadyDone):
			h.writeError(w, http.StatusConflict, "quiz-complete", "The quiz is already complete.")
		default:
			h.writeError(w, http.StatusInternalServerError, "quiz-error", "Could not advance the quiz.")
		}
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.Quiz().State())
}

// QuizBackHandler steps back one question.
func (h *DonationHandlers) QuizBackHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Quiz().Back(); err != nil {
		h.writeError(w, http.StatusConflict, "at-first-question", "Already at the first question.")
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.Quiz().State())
}

// QuizResetHandler clears all answers and reshuffles the questions.
func (h *DonationHandlers) QuizResetHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Quiz().Reset(r.Context()); err != nil {
		log.Printf("level=error component=api msg=\"quiz reset failed\" err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "storage-error", "Could not reset the quiz.")
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.Quiz().State())
}

type donateRequest struct {
	CharityID string `json:"charity_id"`
	Amount    string `json:"amount"` // native token, decimal string
}

// DonateHandler submits a donation. Guard violations map to distinct,
// user-actionable reasons without ever reaching the chain adapter.
func (h *DonationHandlers) DonateHandler(w http.ResponseWriter, r *http.Request) {
	var req donateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid-request", "Invalid request body.")
		return
	}

	donation, err := h.service.Donate(r.Context(), req.CharityID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrCharityNotFound):
			h.writeError(w, http.StatusNotFound, "not-found", "Charity not found.")
		case errors.Is(err, wallet.ErrNotConnected):
			h.writeError(w, http.StatusConflict, "not-connected", "Connect your wallet first.")
		case errors.Is(err, wallet.ErrWrongNetwork):
			h.writeError(w, http.StatusConflict, "wrong-network", "Switch to the target network to donate.")
		case errors.Is(err, wallet.ErrInvalidAmount):
			h.writeError(w, http.StatusBadRequest, "invalid-amount", "Enter a valid donation amount.")
		case errors.Is(err, wallet.ErrTransactionFailed):
			h.writeError(w, http.StatusBadGateway, "transaction-failed", "The donation transaction failed.")
		default:
			log.Printf("level=error component=api msg=\"donation failed\" charity_id=%s err=%v", req.CharityID, err)
			h.writeError(w, http.StatusBadGateway, "transaction-failed", "The donation could not be submitted.")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, donation)
}

// DonationHistoryHandler returns the recorded donations for a donor address,
// most recent first.
func (h *DonationHandlers) DonationHistoryHandler(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		h.writeError(w, http.StatusBadRequest, "invalid-request", "Query parameter 'address' is required.")
		return
	}

	history, err := h.service.DonationHistory(r.Context(), address)
	if err != nil {
		log.Printf("level=error component=api msg=\"donation history load failed\" err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "storage-error", "Could not load donation history.")
		return
	}
	h.writeJSON(w, http.StatusOK, history)
}

func (h *DonationHandlers) writeWalletError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrProviderUnavailable):
		h.writeError(w, http.StatusServiceUnavailable, "provider-unavailable", "No wallet provider is reachable.")
	case errors.Is(err, wallet.ErrUserRejected):
		h.writeError(w, http.StatusConflict, "user-rejected", "The connection request was rejected.")
	default:
		log.Printf("level=error component=api msg=\"wallet operation failed\" err=%v", err)
		h.writeError(w, http.StatusBadGateway, "wallet-error", "The wallet operation failed.")
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func (h *DonationHandlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("level=error component=api msg=\"response encode failed\" err=%v", err)
	}
}

func (h *DonationHandlers) writeError(w http.ResponseWriter, status int, reason, message string) {
	h.writeJSON(w, status, errorResponse{Error: message, Reason: reason})
}
