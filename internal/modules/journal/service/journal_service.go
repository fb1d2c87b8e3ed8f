package service

import (
	"context"
	"path"
	"time"

	"cradle/internal/modules/journal/domain"
	"cradle/internal/modules/journal/dto"
	journalout "cradle/internal/modules/journal/port/out"
	recordsdto "cradle/internal/modules/records/dto"
	recordsin "cradle/internal/modules/records/port/in"
	"cradle/internal/platform/logger"
	"cradle/internal/platform/markdown"
	"cradle/internal/platform/slug"
)

type JournalService struct {
	records  recordsin.Usecase
	profile  journalout.Profile
	notes    journalout.NoteStore
	renderer journalout.Renderer
	log      *logger.Logger
}

func NewJournalService(records recordsin.Usecase, profile journalout.Profile, notes journalout.NoteStore, renderer journalout.Renderer, log *logger.Logger) *JournalService {
	if log == nil {
		log = logger.NewNop()
	}
	return &JournalService{records: records, profile: profile, notes: notes, renderer: renderer, log: log}
}

// notePath files notes per person so two accounts on one device never share
// a note.
func (s *JournalService) notePath(ctx context.Context, date string) string {
	owner := "guest"
	if s.profile != nil {
		if u, ok := s.profile.CurrentUser(ctx); ok {
			label := u.Nickname
			if label == "" {
				label = u.Phone
			}
			owner = slug.Make(label, slug.Make(u.ID, "user"))
		}
	}
	return path.Join(owner, date+".md")
}

func (s *JournalService) day(ctx context.Context, at time.Time) (recordsdto.DayOutput, string, error) {
	day, err := s.records.Day(ctx, at)
	if err != nil {
		return recordsdto.DayOutput{}, "", err
	}
	return day, domain.Summary(day, at.Location()), nil
}

func (s *JournalService) Write(ctx context.Context, at time.Time) (dto.WriteOutput, error) {
	day, summary, err := s.day(ctx, at)
	if err != nil {
		return dto.WriteOutput{}, err
	}
	rel := s.notePath(ctx, day.Date)
	existing, found, err := s.notes.Read(ctx, rel)
	if err != nil {
		return dto.WriteOutput{}, err
	}
	doc, err := markdown.Parse(existing)
	if err != nil {
		// A note whose front matter no longer parses keeps its text as body.
		s.log.Warn("journal front matter unreadable, rewriting", "path", rel, "error", err)
		doc = markdown.Document{Meta: map[string]any{}, Body: existing}
	}
	for k, v := range domain.Facts(day) {
		doc.Meta[k] = v
	}
	doc.ReplaceBlock(domain.BlockName, summary)
	content, err := doc.String()
	if err != nil {
		return dto.WriteOutput{}, err
	}
	abs, err := s.notes.Write(ctx, rel, content)
	if err != nil {
		return dto.WriteOutput{}, err
	}
	s.log.Info("journal note written", "path", abs, "created", !found)
	return dto.WriteOutput{Path: abs, Date: day.Date, Created: !found}, nil
}

func (s *JournalService) Preview(ctx context.Context, at time.Time) (dto.PreviewOutput, error) {
	day, summary, err := s.day(ctx, at)
	if err != nil {
		return dto.PreviewOutput{}, err
	}
	out := dto.PreviewOutput{Date: day.Date, Markdown: summary, Rendered: summary}
	if s.renderer != nil {
		rendered, err := s.renderer.Render(summary)
		if err != nil {
			s.log.Debug("markdown render failed, using plain text", "error", err)
			return out, nil
		}
		out.Rendered = rendered
	}
	return out, nil
}
