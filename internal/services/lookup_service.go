package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"termlens/internal/events"
	"termlens/internal/llm/client"
	"termlens/internal/models"
	"termlens/internal/repositories"
)

// LookupState names the workflow states surfaced to the frontend.
type LookupState string

const (
	StateIdle     LookupState = "idle"
	StateQuerying LookupState = "querying"
	StatePending  LookupState = "pending"
)

// ChatClient is the outbound surface the workflow needs from the completion
// layer.
type ChatClient interface {
	Explain(ctx context.Context, ep client.Endpoint, term string) (string, error)
	Categorize(ctx context.Context, ep client.Endpoint, term string, labels []string) (string, error)
}

// LookupService drives the query workflow: validate input, fetch the
// explanation, optionally categorize it, hold the result as pending, and on
// confirm write it to the record store. All mutation of the workflow state
// goes through the single mutex; remote calls run outside it.
type LookupService struct {
	context  context.Context
	settings SettingsService
	records  repositories.QueryRecordRepository
	chat     ChatClient

	mu             sync.Mutex
	state          LookupState
	attemptKey     string
	pending        *models.PendingLookup
	recategorizing bool
}

func NewLookupService(settings SettingsService, records repositories.QueryRecordRepository, chat ChatClient) *LookupService {
	return &LookupService{
		settings: settings,
		records:  records,
		chat:     chat,
		state:    StateIdle,
	}
}

func (s *LookupService) Startup(ctx context.Context) {
	s.context = ctx
}

// State returns the current workflow state.
func (s *LookupService) State() LookupState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending returns the current unconfirmed result, or nil.
func (s *LookupService) Pending() *models.PendingLookup {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	copied := *s.pending
	return &copied
}

// Submit runs one full lookup for the given text. It rejects empty input, a
// missing query endpoint configuration, and concurrent submissions. The
// categorization call is only issued after the explanation succeeded; its
// failure leaves the category unset and the result usable.
func (s *LookupService) Submit(text string) (*models.PendingLookup, error) {
	term := strings.TrimSpace(text)
	if term == "" {
		return nil, validationErrorf("query text is required")
	}

	cfg, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.QueryAPIURL) == "" || strings.TrimSpace(cfg.QueryAPIKey) == "" {
		return nil, validationErrorf("query API is not configured")
	}

	s.mu.Lock()
	if s.state == StateQuerying {
		s.mu.Unlock()
		return nil, validationErrorf("a query is already in flight")
	}
	attempt := uuid.NewString()
	s.state = StateQuerying
	s.attemptKey = attempt
	s.pending = nil
	s.mu.Unlock()

	ctx := events.WithAttempt(s.context, attempt)
	events.Emit(ctx, events.LookupState, events.NewInfo("querying: "+term))

	result, err := s.chat.Explain(ctx, queryEndpoint(cfg), term)
	if err != nil {
		s.finishAttempt(attempt, nil)
		events.Emit(ctx, events.LookupState, events.NewError("query failed: "+err.Error()))
		return nil, err
	}

	category := ""
	if categorizationReady(cfg) {
		// Strictly ordered after the successful explanation. Non-fatal:
		// a failure only costs the category.
		label, catErr := s.chat.Categorize(ctx, categoryEndpoint(cfg), term, cfg.Categories)
		if catErr != nil {
			events.Emit(ctx, events.LookupNotice, events.NewWarn("categorization failed: "+catErr.Error()))
		} else {
			category = label
		}
	}

	pending := &models.PendingLookup{Query: term, Result: result, Category: category}
	if !s.finishAttempt(attempt, pending) {
		// The workflow was reset while this request was in flight; the
		// result is dropped, last writer wins.
		return nil, nil
	}

	events.Emit(ctx, events.LookupState, events.NewSuccess("result ready"))
	return pending, nil
}

// finishAttempt installs the outcome of an attempt unless the workflow moved
// on in the meantime. It reports whether the attempt was still current.
func (s *LookupService) finishAttempt(attempt string, pending *models.PendingLookup) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attemptKey != attempt {
		return false
	}
	s.pending = pending
	if pending != nil {
		s.state = StatePending
	} else {
		s.state = StateIdle
		s.attemptKey = ""
	}
	return true
}

// Confirm turns the pending result into a record with a fresh timestamp and
// appends it to the store. On a write failure the pending result is kept so
// the user can retry or discard.
func (s *LookupService) Confirm() (*models.QueryRecord, error) {
	s.mu.Lock()
	if s.state != StatePending || s.pending == nil {
		s.mu.Unlock()
		return nil, validationErrorf("no pending result to confirm")
	}
	pending := *s.pending
	s.mu.Unlock()

	record := &models.QueryRecord{
		Timestamp: newRecordTimestamp(),
		Query:     pending.Query,
		Result:    pending.Result,
		Category:  pending.Category,
	}
	if err := s.records.Insert(s.context, record); err != nil {
		events.Emit(s.context, events.StoreNotice, events.NewError("failed to save record: "+err.Error()))
		return nil, fmt.Errorf("save query record: %w", err)
	}

	s.mu.Lock()
	s.pending = nil
	s.state = StateIdle
	s.attemptKey = ""
	s.mu.Unlock()

	events.Emit(s.context, events.StoreNotice, events.NewSuccess("record saved"))
	return record, nil
}

// Discard drops the pending result without touching the store.
func (s *LookupService) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePending || s.pending == nil {
		return validationErrorf("no pending result to discard")
	}
	s.pending = nil
	s.state = StateIdle
	s.attemptKey = ""
	return nil
}

// Reset forces the workflow back to idle, e.g. when the user navigates away.
// An in-flight request keeps running but its result will be dropped.
func (s *LookupService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.state = StateIdle
	s.attemptKey = ""
}

// SetCategory manually overrides the pending category with one of the
// configured labels (or the fallback).
func (s *LookupService) SetCategory(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return validationErrorf("category label is required")
	}

	cfg, err := s.settings.Get()
	if err != nil {
		return err
	}
	if label != client.FallbackCategory && !containsLabel(cfg.Categories, label) {
		return validationErrorf("category %q is not in the configured list", label)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePending || s.pending == nil {
		return validationErrorf("no pending result to categorize")
	}
	s.pending.Category = label
	return nil
}

// Recategorize re-runs only the categorization request against the pending
// query text, replacing the pending category. It is gated by its own
// in-flight flag and never re-issues the explanation request.
func (s *LookupService) Recategorize() (string, error) {
	cfg, err := s.settings.Get()
	if err != nil {
		return "", err
	}
	if !categorizationReady(cfg) {
		return "", validationErrorf("categorization is not configured")
	}

	s.mu.Lock()
	if s.state != StatePending || s.pending == nil {
		s.mu.Unlock()
		return "", validationErrorf("no pending result to categorize")
	}
	if s.recategorizing {
		s.mu.Unlock()
		return "", validationErrorf("categorization is already running")
	}
	s.recategorizing = true
	term := s.pending.Query
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.recategorizing = false
		s.mu.Unlock()
	}()

	label, err := s.chat.Categorize(s.context, categoryEndpoint(cfg), term, cfg.Categories)
	if err != nil {
		events.Emit(s.context, events.LookupNotice, events.NewWarn("categorization failed: "+err.Error()))
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil || s.pending.Query != term {
		// Pending state changed while the request was out; drop the label.
		return "", nil
	}
	s.pending.Category = label
	return label, nil
}

func queryEndpoint(cfg *models.LookupSettings) client.Endpoint {
	return client.Endpoint{
		URL:    cfg.QueryAPIURL,
		APIKey: cfg.QueryAPIKey,
		Model:  cfg.QueryModel,
		Prompt: cfg.QueryPrompt,
	}
}

func categoryEndpoint(cfg *models.LookupSettings) client.Endpoint {
	return client.Endpoint{
		URL:    cfg.CategoryAPIURL,
		APIKey: cfg.CategoryAPIKey,
		Model:  cfg.CategoryModel,
		Prompt: cfg.CategoryPrompt,
	}
}

func categorizationReady(cfg *models.LookupSettings) bool {
	return cfg.CategoryEnabled &&
		strings.TrimSpace(cfg.CategoryAPIURL) != "" &&
		strings.TrimSpace(cfg.CategoryAPIKey) != "" &&
		len(cfg.Categories) > 0
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
