package dashboard

import (
	"strings"
	"sync"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/validate"
)

const (
	MsgRoleRequired      = "Please enter a role to analyze"
	MsgMarketFailed      = "Failed to fetch market analysis. Please try again."
	MsgUserIDRequired    = "Please enter a user ID"
	MsgGapsFailed        = "Failed to load skill gaps. Please try again."
	MsgDreamRoleRequired = "Please enter a dream role"
	MsgRoadmapFailed     = "Failed to generate roadmap. Please try again."
	MsgEvalInputRequired = "Please enter both user ID and week number"
	MsgEvalFailed        = "Failed to run evaluation. Please try again."

	MsgProfileFailed   = "Failed to create profile. Please try again."
	MsgProfileRequired = "Please create a profile first"
	MsgResumeUploaded  = "Resume uploaded successfully"
	MsgLinkedInLoaded  = "LinkedIn data uploaded successfully"
	MsgUploadFailed    = "Upload failed. Please try again."
	MsgBadWeek         = "Week number must be a whole number"
)

// API is the part of the career API the dashboard calls.
type API interface {
	CreateProfile(req domain.ProfileRequest) (domain.ProfileCreated, error)
	UploadResume(userID, filename string, content []byte) (domain.UploadResult, error)
	UploadLinkedIn(userID, filename string, content []byte) (domain.UploadResult, error)
	AnalyzeMarket(role string) (domain.MarketAnalysis, error)
	SkillGaps(userID string) (domain.SkillGaps, error)
	GenerateRoadmap(userID, dreamRole string) error
	Roadmap(userID string) (domain.Roadmap, error)
	RunEvaluation(userID string, week int) (domain.Evaluation, error)
}

type ProfilePage struct {
	Email          string
	GithubUsername string
	DreamRole      string
	UserID         string
	Notice         string
	View[domain.ProfileCreated]
}

type MarketPage struct {
	Role string
	View[domain.MarketAnalysis]
}

type GapsPage struct {
	UserID string
	View[domain.SkillGaps]
}

type RoadmapPage struct {
	UserID    string
	DreamRole string
	View[domain.Roadmap]
}

type EvaluationPage struct {
	UserID string
	Week   string
	View[domain.Evaluation]
}

// State is every page of one visitor, as a value safe to render.
type State struct {
	Profile    ProfilePage
	Market     MarketPage
	Gaps       GapsPage
	Roadmap    RoadmapPage
	Evaluation EvaluationPage
}

// Dashboard is one visitor's pages. Remote calls run without the lock held so
// a page can be rendered (showing Loading) while another fetch is in flight.
type Dashboard struct {
	api API
	mu  sync.Mutex
	st  State
}

func New(api API) *Dashboard {
	d := &Dashboard{api: api}
	d.st.Roadmap.UserID = "1"
	return d
}

// State returns a copy of the current pages.
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.st
}

func (d *Dashboard) update(fn func(st *State)) {
	d.mu.Lock()
	fn(&d.st)
	d.mu.Unlock()
}

// CreateProfile stores the returned id and carries it into the other pages.
func (d *Dashboard) CreateProfile(email, github, dreamRole string) {
	req := domain.ProfileRequest{
		Email:          strings.TrimSpace(email),
		GithubUsername: strings.TrimSpace(github),
		DreamRole:      strings.TrimSpace(dreamRole),
	}
	d.update(func(st *State) {
		st.Profile.Email, st.Profile.GithubUsername, st.Profile.DreamRole = req.Email, req.GithubUsername, req.DreamRole
		st.Profile.Notice = ""
		st.Profile.Begin()
	})

	created, err := d.api.CreateProfile(req)

	d.update(func(st *State) {
		if err != nil || created.ID == 0 {
			applog.Warn(nil, "dashboard.profile.fail", err, nil)
			st.Profile.Fail(MsgProfileFailed)
			return
		}
		st.Profile.Done(created)
		id := idString(created.ID)
		st.Profile.UserID = id
		st.Gaps.UserID, st.Roadmap.UserID, st.Evaluation.UserID = id, id, id
		if st.Roadmap.DreamRole == "" {
			st.Roadmap.DreamRole = req.DreamRole
		}
	})
}

// UploadResume needs a profile; the API message is shown, or a default one.
func (d *Dashboard) UploadResume(filename string, content []byte) {
	d.upload(filename, content, d.api.UploadResume, MsgResumeUploaded)
}

func (d *Dashboard) UploadLinkedIn(filename string, content []byte) {
	d.upload(filename, content, d.api.UploadLinkedIn, MsgLinkedInLoaded)
}

func (d *Dashboard) upload(filename string, content []byte,
	send func(userID, filename string, content []byte) (domain.UploadResult, error), fallback string) {
	var userID string
	d.update(func(st *State) {
		userID = st.Profile.UserID
		st.Profile.Notice = ""
		if userID == "" {
			st.Profile.Fail(MsgProfileRequired)
			return
		}
		st.Profile.Begin()
	})
	if userID == "" {
		return
	}

	res, err := send(userID, filename, content)

	d.update(func(st *State) {
		st.Profile.Loading = false
		if err != nil {
			applog.Warn(nil, "dashboard.upload.fail", err, map[string]any{"file": filename})
			st.Profile.Fail(MsgUploadFailed)
			return
		}
		st.Profile.Notice = res.Message
		if st.Profile.Notice == "" {
			st.Profile.Notice = fallback
		}
	})
}

func (d *Dashboard) AnalyzeMarket(role string) {
	role = strings.TrimSpace(role)
	ok := true
	d.update(func(st *State) {
		st.Market.Role = role
		if role == "" {
			st.Market.Fail(MsgRoleRequired)
			ok = false
			return
		}
		st.Market.Begin()
	})
	if !ok {
		return
	}

	res, err := d.api.AnalyzeMarket(role)

	d.update(func(st *State) {
		if err != nil {
			applog.Warn(nil, "dashboard.market.fail", err, map[string]any{"role": role})
			st.Market.Fail(MsgMarketFailed)
			return
		}
		st.Market.Done(res)
	})
}

func (d *Dashboard) LoadGaps(userID string) {
	id, valid := validate.UserID(userID)
	ok := true
	d.update(func(st *State) {
		st.Gaps.UserID = id
		if !valid {
			st.Gaps.Fail(MsgUserIDRequired)
			ok = false
			return
		}
		st.Gaps.Begin()
	})
	if !ok {
		return
	}

	res, err := d.api.SkillGaps(id)

	d.update(func(st *State) {
		if err != nil {
			applog.Warn(nil, "dashboard.gaps.fail", err, map[string]any{"user_id": id})
			st.Gaps.Fail(MsgGapsFailed)
			return
		}
		st.Gaps.Done(res)
	})
}

// GenerateRoadmap builds the roadmap and then fetches it. Either step failing
// reports the same message.
func (d *Dashboard) GenerateRoadmap(userID, dreamRole string) {
	dreamRole = strings.TrimSpace(dreamRole)
	id, valid := validate.UserID(userID)
	ok := true
	d.update(func(st *State) {
		st.Roadmap.UserID, st.Roadmap.DreamRole = id, dreamRole
		switch {
		case dreamRole == "":
			st.Roadmap.Fail(MsgDreamRoleRequired)
			ok = false
		case !valid:
			st.Roadmap.Fail(MsgUserIDRequired)
			ok = false
		default:
			st.Roadmap.Begin()
		}
	})
	if !ok {
		return
	}

	rm, err := d.generate(id, dreamRole)

	d.update(func(st *State) {
		if err != nil {
			applog.Warn(nil, "dashboard.roadmap.fail", err, map[string]any{"user_id": id})
			st.Roadmap.Fail(MsgRoadmapFailed)
			return
		}
		st.Roadmap.Done(rm)
	})
}

func (d *Dashboard) generate(userID, dreamRole string) (domain.Roadmap, error) {
	if err := d.api.GenerateRoadmap(userID, dreamRole); err != nil {
		return domain.Roadmap{}, err
	}
	return d.api.Roadmap(userID)
}

func (d *Dashboard) RunEvaluation(userID, week string) {
	userID, week = strings.TrimSpace(userID), strings.TrimSpace(week)
	var n int
	ok := true
	d.update(func(st *State) {
		st.Evaluation.UserID, st.Evaluation.Week = userID, week
		if userID == "" || week == "" {
			st.Evaluation.Fail(MsgEvalInputRequired)
			ok = false
			return
		}
		var valid bool
		if n, valid = validate.Week(week); !valid {
			st.Evaluation.Fail(MsgBadWeek)
			ok = false
			return
		}
		if _, valid = validate.UserID(userID); !valid {
			st.Evaluation.Fail(MsgUserIDRequired)
			ok = false
			return
		}
		st.Evaluation.Begin()
	})
	if !ok {
		return
	}

	res, err := d.api.RunEvaluation(userID, n)

	d.update(func(st *State) {
		if err != nil {
			applog.Warn(nil, "dashboard.evaluation.fail", err, map[string]any{"user_id": userID, "week": n})
			st.Evaluation.Fail(MsgEvalFailed)
			return
		}
		st.Evaluation.Done(res)
	})
}

// Registry keeps one Dashboard per visitor session.
type Registry struct {
	api    API
	mu     sync.Mutex
	boards map[string]*Dashboard
}

func NewRegistry(api API) *Registry {
	return &Registry{api: api, boards: map[string]*Dashboard{}}
}

func (r *Registry) For(sessionID string) *Dashboard {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.boards[sessionID]
	if !ok {
		d = New(r.api)
		r.boards[sessionID] = d
	}
	return d
}
