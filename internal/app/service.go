/**
 * @description
 * This file contains the core business logic for the donation-service. The
 * `Service` struct sits between the HTTP layer and the wallet session / chain
 * adapter, owning the donation submission guard, the locally cached charity
 * catalog and the recorded-donation history.
 *
 * Key features:
 * - Enforces the donation preconditions locally (connected account, exact
 *   target chain, finite positive amount) before the chain adapter is ever
 *   contacted, each violation surfacing a distinct user-actionable reason.
 * - On a confirmed donation, appends a receipt to the durable `donations`
 *   list and optimistically bumps the cached charity's raisedAmount. The
 *   cache is an approximation; the chain remains the source of truth and the
 *   two are allowed to diverge.
 * - Publishes a donation.recorded event to RabbitMQ, best-effort.
 *
 * @dependencies
 * - context, errors, fmt, log, math, sort, strconv, strings, sync, time:
 *   Standard Go libraries.
 * - github.com/google/uuid: For donation receipt ids.
 * - internal/domain, internal/matching, internal/quiz, internal/store,
 *   internal/wallet, pkg/rabbitmq.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/givechain/donation-service/internal/domain"
	"github.com/givechain/donation-service/internal/matching"
	"github.com/givechain/donation-service/internal/quiz"
	"github.com/givechain/donation-service/internal/store"
	"github.com/givechain/donation-service/internal/wallet"
	"github.com/givechain/donation-service/pkg/rabbitmq"
)

var ErrCharityNotFound = errors.New("charity not found")

// CharityFilter narrows the catalog listing. Zero values mean "no filter".
type CharityFilter struct {
	Search       string
	Category     string
	VerifiedOnly bool
}

// Service provides the core business logic for donations and matching.
type Service struct {
	kv       store.KV
	session  *wallet.Session
	adapter  wallet.ChainAdapter
	producer rabbitmq.Publisher
	quiz     *quiz.Manager

	mu      sync.RWMutex
	catalog []domain.Charity
}

// NewService creates a new donation service instance.
func NewService(kv store.KV, session *wallet.Session, adapter wallet.ChainAdapter, producer rabbitmq.Publisher, quizManager *quiz.Manager) *Service {
	return &Service{
		kv:       kv,
		session:  session,
		adapter:  adapter,
		producer: producer,
		quiz:     quizManager,
	}
}

// LoadCatalog installs the charity catalog, preferring the locally cached
// copy (which carries optimistic raisedAmount bumps across restarts) and
// seeding the cache from the given source on first run.
func (s *Service) LoadCatalog(ctx context.Context, source []domain.Charity) error {
	var cached []domain.Charity
	if err := store.ReadJSON(ctx, s.kv, store.KeyCharities, &cached); err != nil {
		return fmt.Errorf("load cached catalog: %w", err)
	}

	if len(cached) == 0 {
		cached = source
		if err := s.kv.Put(ctx, store.KeyCharities, cached); err != nil {
			return fmt.Errorf("seed catalog cache: %w", err)
		}
	}

	s.mu.Lock()
	s.catalog = cached
	s.mu.Unlock()
	log.Printf("level=info component=app msg=\"charity catalog loaded\" charities=%d", len(cached))
	return nil
}

// Charities returns a copy of the cached catalog.
func (s *Service) Charities() []domain.Charity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Charity, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// CharityByID looks a charity up in the cached catalog.
func (s *Service) CharityByID(id string) (domain.Charity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.catalog {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Charity{}, ErrCharityNotFound
}

// MatchedCharities scores the (optionally filtered) catalog against the
// current quiz answers and returns it ranked by match score.
func (s *Service) MatchedCharities(filter CharityFilter) []domain.MatchedCharity {
	catalog := s.Charities()

	if filter.Search != "" || filter.Category != "" || filter.VerifiedOnly {
		filtered := make([]domain.Charity, 0, len(catalog))
		needle := strings.ToLower(filter.Search)
		for _, c := range catalog {
			if filter.Category != "" && c.Category != filter.Category {
				continue
			}
			if filter.VerifiedOnly && !c.Verified {
				continue
			}
			if needle != "" &&
				!strings.Contains(strings.ToLower(c.Name), needle) &&
				!strings.Contains(strings.ToLower(c.Description), needle) {
				continue
			}
			filtered = append(filtered, c)
		}
		catalog = filtered
	}

	return matching.ComputeMatches(catalog, s.quiz.Answers())
}

// Donate submits an on-chain donation for the given charity after enforcing
// the local preconditions. The chain adapter is only contacted once every
// guard passes; the active chain id is re-read immediately before dispatch so
// a chain change arriving mid-flow cannot slip through on a stale read.
func (s *Service) Donate(ctx context.Context, charityID, amount string) (*domain.Donation, error) {
	charity, err := s.CharityByID(charityID)
	if err != nil {
		return nil, err
	}

	snap := s.session.Snapshot()
	if !snap.Connected || snap.Address == "" {
		return nil, wallet.ErrNotConnected
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return nil, wallet.ErrInvalidAmount
	}

	// Fresh snapshot: the chain can change at any time, including between
	// the checks above and this dispatch.
	snap = s.session.Snapshot()
	if snap.ChainID != s.session.TargetChainID() {
		return nil, wallet.ErrWrongNetwork
	}

	receipt, err := s.adapter.SendDonation(ctx, charity.Address, strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("submit donation: %w", err)
	}
	if receipt.Status != 1 {
		return nil, fmt.Errorf("%w: tx %s reverted", wallet.ErrTransactionFailed, receipt.Hash)
	}

	donation := domain.Donation{
		ID:           uuid.New(),
		CharityID:    charity.ID,
		CharityName:  charity.Name,
		DonorAddress: snap.Address,
		Amount:       value,
		Timestamp:    time.Now().UTC(),
		TxHash:       receipt.Hash,
	}

	if err := s.appendDonation(ctx, donation); err != nil {
		// The chain transaction is already confirmed; losing the local
		// receipt must not be reported as a failed donation.
		log.Printf("level=error component=app msg=\"donation confirmed but receipt not persisted\" tx=%s err=%v", receipt.Hash, err)
	}
	s.bumpRaisedAmount(ctx, charity.ID, value)

	if err := s.producer.PublishDonationRecorded(ctx, rabbitmq.DonationRecordedEvent{
		DonationID:   donation.ID,
		CharityID:    donation.CharityID,
		CharityName:  donation.CharityName,
		DonorAddress: donation.DonorAddress,
		Amount:       donation.Amount,
		TxHash:       donation.TxHash,
		Timestamp:    donation.Timestamp,
	}); err != nil {
		log.Printf("level=warn component=app msg=\"donation event publish failed\" donation_id=%s err=%v", donation.ID, err)
	}

	log.Printf("level=info component=app msg=\"donation recorded\" charity_id=%s amount=%s tx=%s", charity.ID, amount, receipt.Hash)
	return &donation, nil
}

// appendDonation appends to the durable, append-only donation list.
func (s *Service) appendDonation(ctx context.Context, donation domain.Donation) error {
	var donations []domain.Donation
	if err := store.ReadJSON(ctx, s.kv, store.KeyDonations, &donations); err != nil {
		return err
	}
	donations = append(donations, donation)
	return s.kv.Put(ctx, store.KeyDonations, donations)
}

// bumpRaisedAmount applies the optimistic local increment to the cached
// catalog. This is an approximation for display, not an authoritative total.
func (s *Service) bumpRaisedAmount(ctx context.Context, charityID string, amount float64) {
	s.mu.Lock()
	for i := range s.catalog {
		if s.catalog[i].ID == charityID {
			s.catalog[i].RaisedAmount += amount
			break
		}
	}
	catalog := make([]domain.Charity, len(s.catalog))
	copy(catalog, s.catalog)
	s.mu.Unlock()

	if err := s.kv.Put(ctx, store.KeyCharities, catalog); err != nil {
		log.Printf("level=warn component=app msg=\"catalog cache persist failed\" err=%v", err)
	}
}

// DonationHistory returns the donor's recorded donations, most recent first.
// Address comparison is case-insensitive since hex addresses arrive in mixed
// checksum casings.
func (s *Service) DonationHistory(ctx context.Context, donorAddress string) ([]domain.Donation, error) {
	var all []domain.Donation
	if err := store.ReadJSON(ctx, s.kv, store.KeyDonations, &all); err != nil {
		return nil, fmt.Errorf("load donations: %w", err)
	}

	history := make([]domain.Donation, 0, len(all))
	for _, d := range all {
		if strings.EqualFold(d.DonorAddress, donorAddress) {
			history = append(history, d)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.After(history[j].Timestamp)
	})
	return history, nil
}

// Quiz exposes the quiz manager to the API layer.
func (s *Service) Quiz() *quiz.Manager {
	return s.quiz
}

// Session exposes the shared wallet session to the API layer.
func (s *Service) Session() *wallet.Session {
	return s.session
}
