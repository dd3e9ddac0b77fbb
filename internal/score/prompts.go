package score

import (
	"fmt"
	"strings"
)

// Prompt builders for every oracle-delegated judgment. Each prompt embeds
// the scoring rubric in natural language and pins the response format to the
// SCORE:/EXPLANATION: grammar that ParseScored understands.

func softSkillsEvalHeader(skills []string) string {
	return strings.Join(skills, ", ")
}

func softSkillsPrompt(resumeText string, softSkills []string, jobDescription string) string {
	return fmt.Sprintf(`Analyze whether the candidate demonstrates the following soft skills/qualities based on their resume.

SOFT SKILLS TO EVALUATE:
%s

JOB CONTEXT:
%s

CANDIDATE RESUME:
%s

INSTRUCTIONS:
For each soft skill, determine if the candidate's resume DEMONSTRATES this quality, either:
1. Explicitly mentioned (e.g., "Punctual", "Autonomous")
2. Implicitly demonstrated (e.g., "Managed team of 5" shows Leadership)
3. Evidenced by achievements (e.g., "Delivered projects on time" shows Punctuality)

Be reasonable but not overly generous. Look for concrete evidence.

Provide your evaluation in this EXACT format:
MATCHED: [skill1, skill2, skill3]

If no soft skills are demonstrated, respond:
MATCHED: []
`, softSkillsEvalHeader(softSkills), jobDescription, resumeText)
}

func relevantYearsPrompt(resumeText, jobTitle, jobDescription string) string {
	return fmt.Sprintf(`Analyze the candidate's work experience and determine how many years of RELEVANT, DIRECTLY APPLICABLE experience they have for this specific job.

JOB TITLE: %s

JOB DESCRIPTION:
%s

CANDIDATE RESUME:
%s

CRITICAL INSTRUCTIONS:
1. Only count experience that is DIRECTLY relevant and applicable to the target job
2. Consider domain/industry alignment, technical skills relevance, and functional area match
3. Examples:
   - 12 years as truck driver for "Truck Driver" job = 12 relevant years
   - 12 years as truck driver for "Software Developer" job = 0 relevant years (completely different field)
   - 3 years as Data Scientist for "Truck Driver" job = 0 relevant years (no driving experience)
   - 5 years in team management + 3 years as developer for "Engineering Manager" = 5-6 relevant years (partial)
   - 2 years Python dev + 3 years Java dev for "Python Developer" = 5 relevant years (all programming)

4. Transferable skills count partially:
   - Leadership roles can transfer across industries (50-75%% credit)
   - Technical skills in similar domains (75-100%% credit)
   - Completely different domains = 0%% credit

Provide:
1. Number of relevant years (0 to 50, can be decimal like 2.5)
2. Brief explanation (2-3 sentences max) justifying the count

Format your response EXACTLY as:
RELEVANT_YEARS: [number]
EXPLANATION: [your explanation]
`, jobTitle, jobDescription, resumeText)
}

func softSkillsMatchPrompt(resumeText, jobDescription, jobTitle string) string {
	return fmt.Sprintf(`Analyze the soft skills match between this resume and job position.

JOB TITLE: %s

JOB DESCRIPTION:
%s

CANDIDATE RESUME:
%s

Evaluate the candidate's soft skills based on:
1. Leadership: Ability to lead projects, teams, or initiatives
2. Communication: Written and verbal communication skills
3. Teamwork: Collaboration and working with others
4. Problem-solving: Analytical thinking and solution-oriented approach
5. Initiative: Proactiveness and self-motivation

Provide:
1. A score from 0 to 15 (15 = exceptional soft skills match)
2. A concise explanation (2-3 sentences) justifying the score

Format your response EXACTLY as:
SCORE: [number]
EXPLANATION: [your explanation]
`, jobTitle, jobDescription, resumeText)
}

func cultureFitPrompt(resumeText, jobDescription, companyCulture string) string {
	cultureContext := ""
	if companyCulture != "" {
		cultureContext = "\nCOMPANY CULTURE:\n" + companyCulture
	}
	return fmt.Sprintf(`Analyze the culture fit between this candidate and the company/role.

JOB DESCRIPTION:
%s%s

CANDIDATE RESUME:
%s

Evaluate the candidate's culture fit based on:
1. Values alignment: Do the candidate's values match the company's?
2. Work style: Does the candidate's approach match the role expectations?
3. Environment preference: Does the candidate thrive in this type of environment?
4. Long-term fit: Is this a mutually beneficial match?

Provide:
1. A score from 0 to 10 (10 = perfect culture fit)
2. A concise explanation (2-3 sentences) justifying the score

Format your response EXACTLY as:
SCORE: [number]
EXPLANATION: [your explanation]
`, jobDescription, cultureContext, resumeText)
}

func growthPotentialPrompt(resumeText, jobTitle string) string {
	return fmt.Sprintf(`Analyze the candidate's growth potential for this role.

JOB TITLE: %s

CANDIDATE RESUME:
%s

Evaluate the candidate's growth potential based on:
1. Learning capacity: Evidence of continuous learning, certifications, new skills
2. Career progression: Trajectory showing increasing responsibilities
3. Adaptability: Ability to adapt to new technologies, roles, or environments
4. Future potential: Likelihood of excelling and growing in this role

Provide:
1. A score from 0 to 10 (10 = exceptional growth potential)
2. A concise explanation (2-3 sentences) justifying the score

Format your response EXACTLY as:
SCORE: [number]
EXPLANATION: [your explanation]
`, jobTitle, resumeText)
}

func projectRelevancePrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`Analyze the relevance of the candidate's past projects to this job.

JOB DESCRIPTION:
%s

CANDIDATE RESUME:
%s

Evaluate project relevance based on:
1. Domain similarity: Are the projects in a similar domain/industry?
2. Technical similarity: Do the projects use similar technologies?
3. Scope similarity: Are the project scopes comparable?
4. Impact: Did the projects have measurable, relevant impact?

Provide:
1. A score from 0 to 5 (5 = highly relevant projects)
2. A concise explanation (1-2 sentences) justifying the score

Format your response EXACTLY as:
SCORE: [number]
EXPLANATION: [your explanation]
`, jobDescription, resumeText)
}

func industryExperiencePrompt(resumeText, jobDescription, industry string) string {
	industryContext := ""
	if industry != "" {
		industryContext = "\nINDUSTRY: " + industry
	}
	return fmt.Sprintf(`Analyze the candidate's industry-specific experience for this job.

JOB DESCRIPTION:
%s%s

CANDIDATE RESUME:
%s

Evaluate the candidate's industry experience based on:
1. Years in the specific industry: How long has the candidate worked in this industry?
2. Domain knowledge: Does the candidate understand industry-specific challenges?
3. Relevant projects: Has the candidate worked on industry-relevant projects?
4. Industry-specific skills: Does the candidate have specialized domain skills?

Scoring guidelines:
- 10 points: 5+ years in the exact industry with deep domain expertise
- 7-9 points: 3-5 years in the industry or related fields
- 4-6 points: 1-3 years or transferable experience from adjacent industries
- 1-3 points: No direct industry experience but relevant skills
- 0 points: No relevant industry experience

Provide:
1. A score from 0 to 10
2. A concise explanation (2-3 sentences) justifying the score

Format your response EXACTLY as:
SCORE: [number]
EXPLANATION: [your explanation]
`, jobDescription, industryContext, resumeText)
}

func rareSkillsPrompt(resumeText, jobDescription, jobTitle string) string {
	return fmt.Sprintf(`Analyze the candidate's rare and highly sought-after skills FOR THIS SPECIFIC JOB.

JOB TITLE: %s

JOB DESCRIPTION:
%s

CANDIDATE RESUME:
%s

CRITICAL INSTRUCTION: Only award points for rare skills that are RELEVANT and VALUABLE for this specific job position.
Rare skills that are irrelevant to the job should score 0 points.

For example:
- AI/ML skills are rare and valuable for a Data Scientist job (high score)
- AI/ML skills are irrelevant for a Truck Driver job (0 points)
- CDL license + hazmat certification are rare for a Truck Driver (high score)
- CDL license is irrelevant for a Data Scientist (0 points)

Evaluate rare skills based on:
1. Relevance FIRST: Is this skill valuable for THIS job?
2. Rarity: Is this skill hard to find in candidates for this position?
3. Market demand: Is this skill in high demand for this role?
4. Competitive advantage: Does this skill differentiate the candidate?

Scoring guidelines:
- 5 points: Multiple rare skills that are extremely hard to find AND highly relevant
- 4 points: At least one rare skill in high demand AND relevant to the job
- 3 points: Some specialized skills that add value to this position
- 1-2 points: Minor differentiating skills
- 0 points: No rare skills OR skills are irrelevant to this job

Provide:
1. A score from 0 to 5
2. A concise explanation (1-2 sentences) listing the rare skills and their relevance

Format your response EXACTLY as:
SCORE: [number]
EXPLANATION: [your explanation]
`, jobTitle, jobDescription, resumeText)
}

func careerTrajectoryPrompt(resumeText, jobTitle string) string {
	return fmt.Sprintf(`Analyze the candidate's career trajectory and progression.

JOB TITLE: %s

CANDIDATE RESUME:
%s

Evaluate career trajectory based on:
1. Coherence: Is there a logical progression and story?
2. Advancement: Has the candidate taken on increasing responsibilities?
3. Consistency: No unexplained gaps or frequent job-hopping?
4. Fit: Is this next position a natural next step?

Scoring guidelines:
- 5 points: Clear, coherent progression with steady advancement
- 4 points: Good progression with minor gaps or pivots
- 3 points: Acceptable trajectory with some inconsistencies
- 1-2 points: Fragmented career or unclear direction
- 0 points: Incoherent trajectory or major red flags

Provide:
1. A score from 0 to 5
2. A concise explanation (1-2 sentences) justifying the score

Format your response EXACTLY as:
SCORE: [number]
EXPLANATION: [your explanation]
`, jobTitle, resumeText)
}

func overallSummaryPrompt(jobTitle, scoreSummary string) string {
	return fmt.Sprintf(`Generate a concise overall explanation (2-3 sentences) for this resume-job match.

JOB TITLE: %s

%s

Provide a concise summary that:
1. States the overall match quality (excellent/good/moderate/weak)
2. Highlights the top 2-3 strengths (highest scores)
3. Mentions 1-2 areas for improvement (lowest scores)

Keep it professional, factual, and actionable. Maximum 3 sentences.
`, jobTitle, scoreSummary)
}
