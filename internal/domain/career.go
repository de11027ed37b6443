package domain

// Payloads of the remote career API. Field names follow its JSON.

type ProfileRequest struct {
	Email          string `json:"email"`
	GithubUsername string `json:"github_username"`
	DreamRole      string `json:"dream_role"`
}

type ProfileCreated struct {
	ID int64 `json:"id"`
}

type UploadResult struct {
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

type MarketSkill struct {
	Skill         string  `json:"skill"`
	Frequency     int     `json:"frequency"`
	AvgImportance float64 `json:"avg_importance"`
}

type MarketAnalysis struct {
	Role              string        `json:"role"`
	TotalJobsAnalyzed int           `json:"total_jobs_analyzed"`
	Note              string        `json:"note,omitempty"`
	MarketSkills      []MarketSkill `json:"market_skills"`
}

type SkillGap struct {
	Skill      string  `json:"skill"`
	UserLevel  float64 `json:"user_level"`
	Importance float64 `json:"importance"`
	GapScore   float64 `json:"gap_score"`
}

type SkillGaps struct {
	Gaps []SkillGap `json:"gaps"`
}

type RoadmapDay struct {
	Day            int      `json:"day"`
	FocusSkill     string   `json:"focus_skill"`
	Difficulty     string   `json:"difficulty"`
	EstimatedHours float64  `json:"estimated_hours"`
	Tasks          []string `json:"tasks"`
	Resources      []string `json:"resources"`
}

type Roadmap struct {
	DaysData []RoadmapDay `json:"days_data"`
}

type SkillUpdate struct {
	Skill    string  `json:"skill"`
	OldLevel float64 `json:"old_level"`
	NewLevel float64 `json:"new_level"`
}

type Evaluation struct {
	WeekNumber       int           `json:"week_number"`
	PerformanceScore float64       `json:"performance_score"`
	SkillsUpdated    []SkillUpdate `json:"skills_updated"`
	AdaptationsMade  []string      `json:"adaptations_made"`
}
