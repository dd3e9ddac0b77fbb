package score_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-job-matcher/internal/score"
)

func TestMatchSkill_DirectSubstring(t *testing.T) {
	t.Parallel()
	assert.True(t, score.MatchSkill("Docker", "Experience with Dockerization of services"))
	assert.True(t, score.MatchSkill("python", "Python, Go and SQL"))
	assert.False(t, score.MatchSkill("Kubernetes", "Docker and docker-compose only"))
}

func TestMatchSkill_AllTokens(t *testing.T) {
	t.Parallel()
	// Stop words in the requirement are ignored, remaining tokens must all
	// be present.
	assert.True(t, score.MatchSkill("gestion de flotte", "Gestion quotidienne: flotte de 12 camions"))
	assert.False(t, score.MatchSkill("gestion de flotte", "Gestion administrative uniquement"))
}

func TestMatchSkill_LicenseCodes(t *testing.T) {
	t.Parallel()
	assert.True(t, score.MatchSkill("Permis C", "Permis B, C, CE en cours de validité"))
	assert.True(t, score.MatchSkill("Permis CE", "Permis B, C, CE"))
	assert.False(t, score.MatchSkill("Permis D", "Permis B, C, CE"))
}

func TestMatchSkill_Acronyms(t *testing.T) {
	t.Parallel()
	assert.True(t, score.MatchSkill("CI/CD", "Pipelines CI / CD avec Jenkins"))
	assert.True(t, score.MatchSkill("CI/CD", "ci-cd pipelines"))
	assert.True(t, score.MatchSkill("FIMO", "FIMO / FCO à jour"))
}

func TestIsSoftSkill(t *testing.T) {
	t.Parallel()
	assert.True(t, score.IsSoftSkill("Ponctualité"))
	assert.True(t, score.IsSoftSkill("Esprit d'équipe"))
	assert.True(t, score.IsSoftSkill("Leadership"))
	assert.False(t, score.IsSoftSkill("Permis C"))
	assert.False(t, score.IsSoftSkill("PostgreSQL"))
}

func TestTechSkillsIn(t *testing.T) {
	t.Parallel()
	found := score.TechSkillsIn("Stack: Python, Docker, PostgreSQL on AWS")
	assert.Contains(t, found, "python")
	assert.Contains(t, found, "docker")
	assert.Contains(t, found, "postgresql")
	assert.Contains(t, found, "aws")
	assert.NotContains(t, found, "kubernetes")

	assert.Empty(t, score.TechSkillsIn("Professional truck driver"))
}
