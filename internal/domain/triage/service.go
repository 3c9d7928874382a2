package triage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const matchLimit = 3

// DirectoryLookup resolves routing keys to ranked candidates. The engine
// treats it as a pure lookup owned elsewhere.
type DirectoryLookup interface {
	FindSpecialists(ctx context.Context, specialty string, limit int) ([]SpecialistMatch, error)
	FindHospitals(ctx context.Context, emergencyOnly bool, limit int) ([]HospitalMatch, error)
}

// EntitlementProvider supplies the plan gates for a patient. Implementations
// must return permissive-or-default gates rather than failing for unknown
// patients.
type EntitlementProvider interface {
	Entitlements(ctx context.Context, patientID uuid.UUID) (Entitlements, error)
}

// LexiconSource returns the current rule tables. Hot reload swaps the whole
// Lexicon; a returned pointer is immutable.
type LexiconSource func() *Lexicon

// Service is the triage facade: stateless per call, no per-patient state
// between invocations. The caller owns persistence of the returned values.
type Service struct {
	lexicon      LexiconSource
	directory    DirectoryLookup
	entitlements EntitlementProvider
	demoEnabled  bool
	logger       zerolog.Logger
	now          func() time.Time
}

func NewService(lexicon LexiconSource, directory DirectoryLookup, entitlements EntitlementProvider, demoEnabled bool, logger zerolog.Logger) *Service {
	return &Service{
		lexicon:      lexicon,
		directory:    directory,
		entitlements: entitlements,
		demoEnabled:  demoEnabled,
		logger:       logger,
		now:          time.Now,
	}
}

// AnalyzeObservation runs the full pipeline: extract entities, suggest codes,
// score risk, generate recommendations, then resolve directory matches. It
// never fails for a well-typed observation; an empty observation yields a
// valid low-tier assessment.
func (s *Service) AnalyzeObservation(ctx context.Context, patientID *uuid.UUID, obs HealthObservation) *RiskAssessment {
	lex := s.lexicon()

	noteText := obs.Symptoms + " " + obs.Notes
	entities := ExtractEntities(lex, noteText)
	codes := SuggestCodes(lex, entities, obs.Specialty, noteText)
	res := ScoreRisk(lex, obs, entities)

	ent := s.resolveEntitlements(ctx, patientID)
	rec := BuildRecommendations(lex, res, ent)

	assessment := &RiskAssessment{
		RiskScore:       res.Score,
		RiskTier:        res.Tier,
		Entities:        entities,
		Codes:           codes,
		Factors:         res.Factors,
		Insights:        rec.Insights,
		Recommendations: rec.Recommendations,
		NeedsSpecialist: rec.NeedsSpecialist,
		GeneratedAt:     s.now().UTC(),
	}

	// Directory resolution happens after the pure computation; a lookup
	// failure degrades to an assessment without matches, never an error.
	if rec.NeedsSpecialist && s.directory != nil {
		matches, err := s.directory.FindSpecialists(ctx, rec.SpecialistKey, matchLimit)
		if err != nil {
			s.logger.Warn().Err(err).Str("specialty", rec.SpecialistKey).Msg("specialist lookup failed")
		} else {
			assessment.SpecialistMatches = matches
		}
	}
	if rec.WantHospitals && s.directory != nil {
		matches, err := s.directory.FindHospitals(ctx, true, matchLimit)
		if err != nil {
			s.logger.Warn().Err(err).Msg("hospital lookup failed")
		} else {
			assessment.HospitalMatches = matches
		}
	}

	return assessment
}

// ClassifyMessage routes one chat message through the classifier.
func (s *Service) ClassifyMessage(_ context.Context, req ChatRequest) ChatResponse {
	classifier := NewClassifier(s.lexicon(), s.demoEnabled)
	classifier.now = s.now
	return classifier.Classify(req)
}

func (s *Service) resolveEntitlements(ctx context.Context, patientID *uuid.UUID) Entitlements {
	// Anonymous callers get open gates; the plan policy lives in the
	// subscription domain.
	if patientID == nil || s.entitlements == nil {
		return Entitlements{SpecialistMatches: true, HospitalMatches: true}
	}
	ent, err := s.entitlements.Entitlements(ctx, *patientID)
	if err != nil {
		s.logger.Warn().Err(err).Str("patient_id", patientID.String()).Msg("entitlement lookup failed, using defaults")
		return Entitlements{SpecialistMatches: true, HospitalMatches: true}
	}
	return ent
}
