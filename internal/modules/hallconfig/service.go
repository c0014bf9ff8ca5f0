package hallconfig

import (
	"context"
	"fmt"
	"log"
	"strings"

	"retreatdesk/internal/domain"
	"retreatdesk/internal/layout"
)

type Service struct {
	configs Repository
}

func NewService(configs Repository) *Service {
	return &Service{configs: configs}
}

func normalise(l layout.HallLayout) layout.HallLayout {
	l = layout.WithDefaults(l)
	for i := range l.Sections {
		l.Sections[i].Purpose = layout.ParsePurpose(string(l.Sections[i].Purpose))
		if g := l.Sections[i].Gender; g != "" {
			l.Sections[i].Gender = domain.ParseGender(string(g))
		}
	}
	if l.GenderType != "" {
		l.GenderType = domain.ParseGender(string(l.GenderType))
	}
	return l
}

// Upsert validates and stores the session's layout, replacing any earlier one.
func (s *Service) Upsert(ctx context.Context, sessionID int64, req UpsertRequest) (*View, error) {
	l := normalise(req.Layout)
	if issues := layout.Validate(l); len(issues) > 0 {
		return nil, &LayoutError{Issues: issues}
	}

	doc, err := layout.Encode(l)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}

	cfg := &domain.HallConfig{
		SessionID:  sessionID,
		HallName:   strings.TrimSpace(req.HallName),
		RegionCode: strings.TrimSpace(req.RegionCode),
		Layout:     doc,
	}
	if req.GenderType != "" {
		cfg.GenderType = domain.ParseGender(req.GenderType)
	}
	if err := s.configs.Upsert(ctx, cfg); err != nil {
		return nil, err
	}

	log.Printf("hallconfig: stored session_id=%d config_id=%d sections=%d", sessionID, cfg.ID, len(l.Sections))
	return &View{HallConfig: *cfg, Layout: l}, nil
}

func (s *Service) Get(ctx context.Context, sessionID int64) (*View, error) {
	cfg, l, err := s.ActiveLayout(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &View{HallConfig: *cfg, Layout: l}, nil
}

// ActiveLayout returns the single configuration of a session. A stored
// document without sections falls back to the legacy single-section grid.
func (s *Service) ActiveLayout(ctx context.Context, sessionID int64) (*domain.HallConfig, layout.HallLayout, error) {
	configs, err := s.configs.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, layout.HallLayout{}, err
	}
	switch len(configs) {
	case 0:
		return nil, layout.HallLayout{}, ErrHallConfigMissing
	case 1:
	default:
		return nil, layout.HallLayout{}, ErrHallConfigAmbiguous
	}

	cfg := configs[0]
	l, err := layout.Decode(cfg.Layout)
	if err != nil {
		return nil, layout.HallLayout{}, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if len(l.Sections) == 0 {
		l = layout.LegacyLayout(l.TotalCols, l.TotalRows)
	}
	l = normalise(l)
	if l.GenderType == "" {
		l.GenderType = cfg.GenderType
	}
	return &cfg, l, nil
}

func (s *Service) Compile(ctx context.Context, sessionID int64) (layout.CompiledLayout, error) {
	_, l, err := s.ActiveLayout(ctx, sessionID)
	if err != nil {
		return layout.CompiledLayout{}, err
	}
	return layout.Compile(l), nil
}

// Preview compiles a layout without storing it.
func (s *Service) Preview(l layout.HallLayout) PreviewResult {
	l = normalise(l)
	compiled := layout.Compile(l)
	return PreviewResult{
		Compiled:    compiled,
		Issues:      layout.Validate(l),
		UsableSeats: compiled.UsableCount(),
	}
}
