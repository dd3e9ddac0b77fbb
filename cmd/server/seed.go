package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

type seedYAML struct {
	Jobs []seedJob `yaml:"jobs"`
}

type seedJob struct {
	Title        string   `yaml:"title"`
	Company      string   `yaml:"company"`
	Location     string   `yaml:"location"`
	Salary       int      `yaml:"salary"`
	Industry     string   `yaml:"industry"`
	Description  string   `yaml:"description"`
	Requirements []string `yaml:"requirements"`
}

// seedPostings loads job postings from a YAML file into the repository.
// It is a no-op when the table already has rows, so restarts stay idempotent.
func seedPostings(ctx domain.Context, jobs domain.JobRepository, path string) error {
	n, err := jobs.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed count: %w", err)
	}
	if n > 0 {
		slog.Info("postings already present, skipping seed", slog.Int("count", n))
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed read: %w", err)
	}
	var doc seedYAML
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("seed parse: %w", err)
	}
	if len(doc.Jobs) == 0 {
		return fmt.Errorf("seed file %s contains no jobs", path)
	}

	for _, j := range doc.Jobs {
		if j.Title == "" {
			slog.Warn("skipping seed entry without title", slog.String("company", j.Company))
			continue
		}
		id, err := jobs.Create(ctx, domain.JobPosting{
			Title:        j.Title,
			Company:      j.Company,
			Location:     j.Location,
			Salary:       j.Salary,
			Industry:     j.Industry,
			Description:  j.Description,
			Requirements: j.Requirements,
		})
		if err != nil {
			return fmt.Errorf("seed create %q: %w", j.Title, err)
		}
		slog.Info("seeded posting", slog.String("id", id), slog.String("title", j.Title))
	}
	return nil
}
