package score_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/score"
)

func TestDeterministicScorer_SalaryFit(t *testing.T) {
	t.Parallel()
	s := &score.DeterministicScorer{ReferenceYear: 2024}
	ctx := context.Background()

	job := domain.JobPosting{Title: "Driver", Salary: 42000}

	got := s.Score(ctx, "resume", job, domain.CandidateProfile{SalaryExpectation: 40000})
	assert.Equal(t, 5.0, got.SalaryFit.Score)

	got = s.Score(ctx, "resume", job, domain.CandidateProfile{SalaryExpectation: 45000})
	assert.Equal(t, 4.0, got.SalaryFit.Score)

	got = s.Score(ctx, "resume", job, domain.CandidateProfile{SalaryExpectation: 50000})
	assert.Equal(t, 2.0, got.SalaryFit.Score)

	got = s.Score(ctx, "resume", job, domain.CandidateProfile{SalaryExpectation: 60000})
	assert.Equal(t, 0.0, got.SalaryFit.Score)

	// No expectation is assumed acceptable.
	got = s.Score(ctx, "resume", job, domain.CandidateProfile{})
	assert.Equal(t, 5.0, got.SalaryFit.Score)
}

func TestDeterministicScorer_Experience(t *testing.T) {
	t.Parallel()
	s := &score.DeterministicScorer{ReferenceYear: 2024}
	ctx := context.Background()
	cand := domain.CandidateProfile{}

	job := domain.JobPosting{Title: "Driver", Description: "Minimum 5 years of experience"}

	// 2014-2024 = 10 years against 5 required: within the lenient window.
	got := s.Score(ctx, "Chauffeur 2014-2024", job, cand)
	assert.Equal(t, 10.0, got.ExperienceYears.Score)

	// 25 years is far beyond 5 required.
	got = s.Score(ctx, "Chauffeur 1999-2024", job, cand)
	assert.Equal(t, 7.0, got.ExperienceYears.Score)

	// 2 years against 5 required loses two points per missing year.
	got = s.Score(ctx, "Chauffeur 2022-2024", job, cand)
	assert.Equal(t, 4.0, got.ExperienceYears.Score)

	// Keyword claims back up missing date ranges.
	got = s.Score(ctx, "6 years of experience in transport", job, cand)
	assert.Equal(t, 10.0, got.ExperienceYears.Score)
}

func TestDeterministicScorer_Education(t *testing.T) {
	t.Parallel()
	s := &score.DeterministicScorer{ReferenceYear: 2024}
	ctx := context.Background()
	cand := domain.CandidateProfile{}

	// Master against the implicit bachelor default.
	got := s.Score(ctx, "Master in Computer Science 2016-2018", domain.JobPosting{Title: "Dev"}, cand)
	assert.Equal(t, 5.0, got.EducationMatch.Score)

	// Master required explicitly, candidate has bachelor: one level short.
	job := domain.JobPosting{Title: "Dev", Description: "Master degree required"}
	got = s.Score(ctx, "Bachelor of Science", job, cand)
	assert.Equal(t, 3.0, got.EducationMatch.Score)

	// No degree at all.
	got = s.Score(ctx, "Self-taught developer", domain.JobPosting{Title: "Dev"}, cand)
	assert.Equal(t, 1.0, got.EducationMatch.Score)
}

func TestDeterministicScorer_Location(t *testing.T) {
	t.Parallel()
	s := &score.DeterministicScorer{ReferenceYear: 2024}
	ctx := context.Background()

	job := domain.JobPosting{Title: "Driver", Location: "Paris"}

	got := s.Score(ctx, "resume", job, domain.CandidateProfile{Location: "Paris"})
	assert.Equal(t, 5.0, got.LocationMatch.Score)

	got = s.Score(ctx, "resume", job, domain.CandidateProfile{})
	assert.Equal(t, 3.0, got.LocationMatch.Score)

	got = s.Score(ctx, "resume", domain.JobPosting{Location: "Remote"}, domain.CandidateProfile{Location: "Lyon"})
	assert.Equal(t, 5.0, got.LocationMatch.Score)

	got = s.Score(ctx, "resume", job, domain.CandidateProfile{Location: "Remote only"})
	assert.Equal(t, 1.0, got.LocationMatch.Score)

	// Same country, no shared city.
	got = s.Score(ctx, "resume", domain.JobPosting{Location: "Nantes, France"}, domain.CandidateProfile{Location: "Lille, France"})
	assert.Equal(t, 3.0, got.LocationMatch.Score)

	got = s.Score(ctx, "resume", job, domain.CandidateProfile{Location: "Berlin"})
	assert.Equal(t, 1.0, got.LocationMatch.Score)
}

func TestDeterministicScorer_Skills(t *testing.T) {
	t.Parallel()
	s := &score.DeterministicScorer{ReferenceYear: 2024}
	ctx := context.Background()
	cand := domain.CandidateProfile{}

	job := domain.JobPosting{
		Title:        "Chauffeur SPL",
		Description:  "Conduite de camions, livraisons régionales",
		Requirements: []string{"Permis C", "FIMO", "Ponctualité"},
	}
	resume := "Permis B, C, CE. FIMO / FCO à jour. Ponctualité irréprochable. Chauffeur 2015-2024."

	got := s.Score(ctx, resume, job, cand)
	// All three requirements match without the oracle (soft skill falls back
	// to text matching).
	assert.Equal(t, 15.0, got.SkillsMatching.Score)
	assert.Equal(t, 1.0, got.SkillsMatching.Metadata["match_ratio"])

	// Missing skills drag the ratio down.
	got = s.Score(ctx, "Permis B uniquement", job, cand)
	assert.Less(t, got.SkillsMatching.Score, 8.0)
	assert.NotEmpty(t, got.SkillsMatching.Metadata["missing_skills"])
}

func TestDeterministicScorer_Skills_NoRequirements(t *testing.T) {
	t.Parallel()
	s := &score.DeterministicScorer{ReferenceYear: 2024}
	ctx := context.Background()

	// Description without tech vocabulary and no requirements falls back to
	// the generic skill set.
	job := domain.JobPosting{Title: "Driver", Description: "Livraisons régionales"}
	got := s.Score(ctx, "Chauffeur sans informatique", job, domain.CandidateProfile{})
	assert.Equal(t, 0.0, got.SkillsMatching.Score)

	// Generic skills present in the resume score their ratio.
	got = s.Score(ctx, "Software engineering and development background", job, domain.CandidateProfile{})
	assert.InDelta(t, 10.0, got.SkillsMatching.Score, 0.001)
}

func TestDeterministicScorer_SoftSkillsViaOracle(t *testing.T) {
	t.Parallel()
	oracle := &fakeOracle{responses: map[string]string{
		"SOFT SKILLS TO EVALUATE": "MATCHED: [Ponctualité]",
	}}
	s := &score.DeterministicScorer{
		Oracle:        score.NewGateway(oracle, 0),
		ReferenceYear: 2024,
	}

	job := domain.JobPosting{
		Title:        "Chauffeur",
		Description:  "Livraisons",
		Requirements: []string{"Permis C", "Ponctualité", "Autonomie"},
	}
	got := s.Score(context.Background(), "Permis B, C, CE", job, domain.CandidateProfile{})

	// Permis C and oracle-confirmed Ponctualité out of three requirements.
	assert.InDelta(t, 10.0, got.SkillsMatching.Score, 0.001)
	assert.Equal(t, 1, got.SkillsMatching.Metadata["soft_skills_matched"])
	assert.Equal(t, true, got.SkillsMatching.Metadata["semantic_soft_skills"])
}

func TestDeterministicScorer_EndToEnd(t *testing.T) {
	t.Parallel()
	s := &score.DeterministicScorer{ReferenceYear: 2024}

	job := domain.JobPosting{
		Title:        "Chauffeur Poids Lourd",
		Company:      "TransExpress",
		Location:     "Lyon",
		Salary:       32000,
		Description:  "Chauffeur expérimenté pour livraisons régionales. Minimum 3 years of experience.",
		Requirements: []string{"Permis C", "FIMO"},
	}
	resume := "Chauffeur PL 2016-2024. Permis B, C, CE. FIMO à jour. Basé à Lyon. Licence professionnelle transport."

	got := s.Score(context.Background(), resume, job, domain.CandidateProfile{
		Location:          "Lyon",
		SalaryExpectation: 30000,
	})

	assert.Equal(t, 15.0, got.SkillsMatching.Score)
	assert.Equal(t, 10.0, got.ExperienceYears.Score)
	assert.Equal(t, 5.0, got.SalaryFit.Score)
	assert.Equal(t, 5.0, got.LocationMatch.Score)
	assert.GreaterOrEqual(t, got.Total(), 35.0)
	assert.LessOrEqual(t, got.Total(), 40.0)
}
