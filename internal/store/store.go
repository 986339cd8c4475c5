// Package store contains the persistent portfolio store — the business
// logic layer between the HTTP handlers and the key-value repository.
//
// THE AGGREGATE MODEL:
// All content lives in one aggregate (model.PortfolioData) persisted as a
// single JSON value under one named key. Every mutation is read-modify-write
// over the whole aggregate: load it, change one collection, write it back.
// That sounds wasteful, but the dataset is a personal portfolio (a few KB) —
// the simplicity is worth far more than the bytes.
//
// WHY A MUTEX?
// The original ran inside a single browser tab, so read-modify-write was
// non-interleaved by construction. An HTTP server has genuinely concurrent
// callers, so the single-writer illusion must be enforced explicitly: every
// operation holds s.mu for its whole read-modify-write span. With one admin
// editing the site, contention is zero in practice.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/adupont/portfolio/internal/apperror"
	"github.com/adupont/portfolio/internal/model"
	"github.com/adupont/portfolio/internal/repository"
)

// dataKey is the persistent slot holding the serialized aggregate.
// The v2 suffix is the schema version: when the aggregate shape changes
// incompatibly, bump the key and let the old row rot — readers of the new
// key fall back to defaults and re-seed.
const dataKey = "portfolio_data_v2"

// sinkTimeout bounds the best-effort forward to the external save sink.
// A slow sink delays only the mutating caller, never other operations, and
// a failed forward never fails the local save.
const sinkTimeout = 3 * time.Second

// Sink receives a copy of the serialized aggregate after every local save.
// Implementations are best-effort collaborators (e.g. the development
// save-to-disk bridge); the store logs their errors and moves on.
type Sink interface {
	Forward(ctx context.Context, payload []byte) error
}

// Store owns the canonical aggregate. The persistent slot is its durable
// mirror: refreshed on every write, consulted on every read.
type Store struct {
	repo   repository.KVRepository
	sink   Sink // optional; nil means no forwarding
	logger *slog.Logger

	mu sync.Mutex // serializes read-modify-write on the aggregate
}

// New creates a Store. sink may be nil when no external forward is
// configured.
func New(repo repository.KVRepository, sink Sink, logger *slog.Logger) *Store {
	return &Store{
		repo:   repo,
		sink:   sink,
		logger: logger,
	}
}

// newID produces a collision-resistant identifier for new entities.
// xid is 20 URL-safe chars, timestamp-prefixed so ids sort by creation time.
func newID() string {
	return xid.New().String()
}

// persisted mirrors the aggregate with pointer fields so that "absent in
// the stored JSON" is distinguishable from "present but empty". Each nil
// top-level field falls back to the default dataset independently — this is
// what lets schema additions ship without breaking older persisted data.
type persisted struct {
	Profile  *model.Profile          `json:"profile"`
	Skills   *[]model.Skill          `json:"skills"`
	Projects *[]model.Project        `json:"projects"`
	Articles *[]model.Article        `json:"articles"`
	Messages *[]model.ContactMessage `json:"messages"`
}

func mergeWithDefaults(p persisted) *model.PortfolioData {
	data := defaultData()
	if p.Profile != nil {
		data.Profile = *p.Profile
	}
	if p.Skills != nil {
		data.Skills = *p.Skills
	}
	if p.Projects != nil {
		data.Projects = *p.Projects
	}
	if p.Articles != nil {
		data.Articles = *p.Articles
	}
	if p.Messages != nil {
		data.Messages = *p.Messages
	}
	return data
}

// load reads, deserializes, and default-merges the aggregate.
// Callers must hold s.mu.
//
// FAILURE SEMANTICS (spec'd carefully):
//   - slot never written → seed defaults, return them (not an error)
//   - slot unparseable   → log, re-seed defaults, return them (not an error)
//   - storage itself broken → a real error, propagated
func (s *Store) load(ctx context.Context) (*model.PortfolioData, error) {
	raw, err := s.repo.Get(ctx, dataKey)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return s.seed(ctx)
		}
		return nil, fmt.Errorf("store: reading aggregate: %w", err)
	}

	var p persisted
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		// Corrupt state is equivalent to no state. Logged for diagnostics
		// only — the caller sees a healthy default dataset.
		s.logger.Warn("persisted aggregate is corrupt, replacing with defaults",
			slog.String("error", err.Error()),
		)
		return s.seed(ctx)
	}

	return mergeWithDefaults(p), nil
}

// seed writes the default dataset into the slot and returns it.
// Callers must hold s.mu.
func (s *Store) seed(ctx context.Context) (*model.PortfolioData, error) {
	data := defaultData()
	if err := s.save(ctx, data); err != nil {
		return nil, err
	}
	s.logger.Info("seeded default portfolio dataset")
	return data, nil
}

// save serializes the full aggregate and replaces the slot's prior content,
// then forwards a copy to the external sink on a best-effort basis.
// Callers must hold s.mu.
func (s *Store) save(ctx context.Context, data *model.PortfolioData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("store: serializing aggregate: %w", err)
	}

	if err := s.repo.Set(ctx, dataKey, string(payload)); err != nil {
		return fmt.Errorf("store: writing aggregate: %w", err)
	}

	if s.sink != nil {
		// The forward is bounded by its own timeout and detached from the
		// caller's cancellation — a dying request must not abort it, and a
		// hanging sink must not block the caller past the timeout.
		fwdCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
		defer cancel()
		if err := s.sink.Forward(fwdCtx, payload); err != nil {
			s.logger.Warn("save sink forward failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// Data returns the current aggregate, seeding defaults on first call.
func (s *Store) Data(ctx context.Context) (*model.PortfolioData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save replaces the whole aggregate. Exposed for the import path and tests;
// normal mutations go through the per-entity methods below.
func (s *Store) Save(ctx context.Context, data *model.PortfolioData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, data)
}

// --- Profile -----------------------------------------------------------

func (s *Store) Profile(ctx context.Context) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &data.Profile, nil
}

// UpdateProfile merges the given fields into the profile. The profile is
// never deleted — only overwritten or partially merged.
func (s *Store) UpdateProfile(ctx context.Context, updates ProfileUpdate) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	updates.apply(&data.Profile)

	if err := s.save(ctx, data); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("name", data.Profile.Name))
	return &data.Profile, nil
}

// --- Skills ------------------------------------------------------------

func (s *Store) Skills(ctx context.Context) ([]model.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return data.Skills, nil
}

// AddSkill appends a new skill with a freshly generated id. Any id on the
// input is ignored — ids are assigned exactly once, here.
func (s *Store) AddSkill(ctx context.Context, skill model.Skill) (*model.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	skill.ID = newID()
	data.Skills = append(data.Skills, skill)

	if err := s.save(ctx, data); err != nil {
		return nil, err
	}

	s.logger.Info("skill added",
		slog.String("id", skill.ID),
		slog.String("name", skill.Name),
	)
	return &skill, nil
}

// UpdateSkill merges the given fields into the skill with the given id.
// An unknown id is a silent no-op: the aggregate is left untouched and
// (nil, nil) is returned so HTTP callers can decide to 404.
func (s *Store) UpdateSkill(ctx context.Context, id string, updates SkillUpdate) (*model.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range data.Skills {
		if data.Skills[i].ID != id {
			continue
		}
		updates.apply(&data.Skills[i])
		if err := s.save(ctx, data); err != nil {
			return nil, err
		}
		s.logger.Info("skill updated", slog.String("id", id))
		updated := data.Skills[i]
		return &updated, nil
	}

	return nil, nil
}

// DeleteSkill removes the skill with the given id. Deleting an unknown id
// is a no-op.
func (s *Store) DeleteSkill(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := data.Skills[:0]
	for _, sk := range data.Skills {
		if sk.ID != id {
			kept = append(kept, sk)
		}
	}
	if len(kept) == len(data.Skills) {
		return nil // nothing removed, nothing to write
	}
	data.Skills = kept

	if err := s.save(ctx, data); err != nil {
		return err
	}

	s.logger.Info("skill deleted", slog.String("id", id))
	return nil
}

// --- Projects ----------------------------------------------------------

func (s *Store) Projects(ctx context.Context) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return data.Projects, nil
}

func (s *Store) AddProject(ctx context.Context, project model.Project) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	project.ID = newID()
	data.Projects = append(data.Projects, project)

	if err := s.save(ctx, data); err != nil {
		return nil, err
	}

	s.logger.Info("project added",
		slog.String("id", project.ID),
		slog.String("title", project.Title),
	)
	return &project, nil
}

func (s *Store) UpdateProject(ctx context.Context, id string, updates ProjectUpdate) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range data.Projects {
		if data.Projects[i].ID != id {
			continue
		}
		updates.apply(&data.Projects[i])
		if err := s.save(ctx, data); err != nil {
			return nil, err
		}
		s.logger.Info("project updated", slog.String("id", id))
		updated := data.Projects[i]
		return &updated, nil
	}

	return nil, nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := data.Projects[:0]
	for _, p := range data.Projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(data.Projects) {
		return nil
	}
	data.Projects = kept

	if err := s.save(ctx, data); err != nil {
		return err
	}

	s.logger.Info("project deleted", slog.String("id", id))
	return nil
}

// --- Articles ----------------------------------------------------------

// Articles returns all articles, or only the published ones when
// publishedOnly is set (the public view).
func (s *Store) Articles(ctx context.Context, publishedOnly bool) ([]model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !publishedOnly {
		return data.Articles, nil
	}

	published := make([]model.Article, 0, len(data.Articles))
	for _, a := range data.Articles {
		if a.Published {
			published = append(published, a)
		}
	}
	return published, nil
}

func (s *Store) AddArticle(ctx context.Context, article model.Article) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	article.ID = newID()
	data.Articles = append(data.Articles, article)

	if err := s.save(ctx, data); err != nil {
		return nil, err
	}

	s.logger.Info("article added",
		slog.String("id", article.ID),
		slog.String("title", article.Title),
	)
	return &article, nil
}

func (s *Store) UpdateArticle(ctx context.Context, id string, updates ArticleUpdate) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range data.Articles {
		if data.Articles[i].ID != id {
			continue
		}
		updates.apply(&data.Articles[i])
		if err := s.save(ctx, data); err != nil {
			return nil, err
		}
		s.logger.Info("article updated", slog.String("id", id))
		updated := data.Articles[i]
		return &updated, nil
	}

	return nil, nil
}

func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := data.Articles[:0]
	for _, a := range data.Articles {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(data.Articles) {
		return nil
	}
	data.Articles = kept

	if err := s.save(ctx, data); err != nil {
		return err
	}

	s.logger.Info("article deleted", slog.String("id", id))
	return nil
}

// --- Contact messages --------------------------------------------------

func (s *Store) Messages(ctx context.Context) ([]model.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return data.Messages, nil
}

// AddMessage records a contact form submission. The store — never the
// caller — assigns the id, stamps the date with the current time
// (ISO-8601), and starts the message unread.
func (s *Store) AddMessage(ctx context.Context, name, email, message string) (*model.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	msg := model.ContactMessage{
		ID:      newID(),
		Name:    name,
		Email:   email,
		Message: message,
		Date:    time.Now().UTC().Format(time.RFC3339),
		Read:    false,
	}
	data.Messages = append(data.Messages, msg)

	if err := s.save(ctx, data); err != nil {
		return nil, err
	}

	s.logger.Info("contact message received",
		slog.String("id", msg.ID),
		slog.String("from", email),
	)
	return &msg, nil
}

// MarkMessageRead flips the read flag. Unknown id → silent no-op, (nil, nil).
func (s *Store) MarkMessageRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range data.Messages {
		if data.Messages[i].ID != id {
			continue
		}
		data.Messages[i].Read = true
		if err := s.save(ctx, data); err != nil {
			return nil, err
		}
		updated := data.Messages[i]
		return &updated, nil
	}

	return nil, nil
}

func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := data.Messages[:0]
	for _, m := range data.Messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(data.Messages) {
		return nil
	}
	data.Messages = kept

	if err := s.save(ctx, data); err != nil {
		return err
	}

	s.logger.Info("contact message deleted", slog.String("id", id))
	return nil
}

// --- Export / import / reset ------------------------------------------

// Export returns the full aggregate as indented, human-readable JSON —
// the backup the admin downloads from the panel.
func (s *Store) Export(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("store: exporting aggregate: %w", err)
	}
	return string(out), nil
}

// Import parses a previously exported payload and, if it minimally contains
// a profile and the skills/projects collections, replaces the entire
// aggregate. On any failure the current state is left untouched and a
// validation error is returned — malformed input never panics or corrupts.
// Articles and messages absent from the payload fall back to defaults.
func (s *Store) Import(ctx context.Context, jsonText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p persisted
	if err := json.Unmarshal([]byte(jsonText), &p); err != nil {
		return apperror.ValidationFailed("data", "import payload is not valid JSON")
	}
	if p.Profile == nil || p.Skills == nil || p.Projects == nil {
		return apperror.ValidationFailed("data", "import payload must contain profile, skills, and projects")
	}

	data := mergeWithDefaults(p)
	if err := s.save(ctx, data); err != nil {
		return err
	}

	s.logger.Info("portfolio data imported",
		slog.Int("skills", len(data.Skills)),
		slog.Int("projects", len(data.Projects)),
	)
	return nil
}

// Reset replaces the aggregate with the built-in defaults unconditionally.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, defaultData()); err != nil {
		return err
	}
	s.logger.Info("portfolio data reset to defaults")
	return nil
}
