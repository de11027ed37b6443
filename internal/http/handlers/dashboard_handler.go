package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/dashboard"
	applog "storefront/internal/log"
)

// maxUpload bounds resume and LinkedIn files.
const maxUpload = 5 << 20

// DashboardHandler serves the career navigator pages.
type DashboardHandler struct {
	Boards *dashboard.Registry
}

func (h *DashboardHandler) board(c *fiber.Ctx) *dashboard.Dashboard {
	return h.Boards.For(sessionID(c))
}

func (h *DashboardHandler) page(c *fiber.Ctx, tmpl, title string, page any) error {
	return render(c, tmpl, fiber.Map{"Title": title, "P": page, "Nav": true})
}

func (h *DashboardHandler) Profile(c *fiber.Ctx) error {
	return h.page(c, "profile", "Profile", h.board(c).State().Profile)
}

func (h *DashboardHandler) CreateProfile(c *fiber.Ctx) error {
	d := h.board(c)
	d.CreateProfile(c.FormValue("email"), c.FormValue("github_username"), c.FormValue("dream_role"))
	st := d.State().Profile
	if st.Err == "" {
		applog.Audit(c, "profile.create", map[string]any{"user_id": st.UserID})
	}
	return h.page(c, "profile", "Profile", st)
}

func (h *DashboardHandler) UploadResume(c *fiber.Ctx) error {
	return h.upload(c, (*dashboard.Dashboard).UploadResume)
}

func (h *DashboardHandler) UploadLinkedIn(c *fiber.Ctx) error {
	return h.upload(c, (*dashboard.Dashboard).UploadLinkedIn)
}

func (h *DashboardHandler) upload(c *fiber.Ctx, send func(d *dashboard.Dashboard, name string, content []byte)) error {
	d := h.board(c)
	fh, err := c.FormFile("file")
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		st := d.State().Profile
		st.Err = "Choose a file to upload"
		return h.page(c, "profile", "Profile", st)
	}
	content, err := readUpload(fh)
	if err != nil {
		applog.Security(c, "upload.reject", map[string]any{"file": fh.Filename, "size": fh.Size})
		c.Status(fiber.StatusRequestEntityTooLarge)
		st := d.State().Profile
		st.Err = "File is too large"
		return h.page(c, "profile", "Profile", st)
	}
	send(d, fh.Filename, content)
	return h.page(c, "profile", "Profile", d.State().Profile)
}

var errTooLarge = fiber.NewError(fiber.StatusRequestEntityTooLarge, "file too large")

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxUpload {
		return nil, errTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUpload))
}

func (h *DashboardHandler) Market(c *fiber.Ctx) error {
	return h.page(c, "market", "Market", h.board(c).State().Market)
}

func (h *DashboardHandler) AnalyzeMarket(c *fiber.Ctx) error {
	d := h.board(c)
	d.AnalyzeMarket(c.FormValue("role"))
	return h.page(c, "market", "Market", d.State().Market)
}

func (h *DashboardHandler) Gaps(c *fiber.Ctx) error {
	return h.page(c, "gaps", "Skill gaps", h.board(c).State().Gaps)
}

func (h *DashboardHandler) LoadGaps(c *fiber.Ctx) error {
	d := h.board(c)
	d.LoadGaps(c.FormValue("user_id"))
	return h.page(c, "gaps", "Skill gaps", d.State().Gaps)
}

func (h *DashboardHandler) Roadmap(c *fiber.Ctx) error {
	return h.page(c, "roadmap", "Roadmap", h.board(c).State().Roadmap)
}

func (h *DashboardHandler) GenerateRoadmap(c *fiber.Ctx) error {
	d := h.board(c)
	d.GenerateRoadmap(c.FormValue("user_id"), c.FormValue("dream_role"))
	return h.page(c, "roadmap", "Roadmap", d.State().Roadmap)
}

func (h *DashboardHandler) Evaluation(c *fiber.Ctx) error {
	return h.page(c, "evaluation", "Evaluation", h.board(c).State().Evaluation)
}

func (h *DashboardHandler) RunEvaluation(c *fiber.Ctx) error {
	d := h.board(c)
	d.RunEvaluation(c.FormValue("user_id"), c.FormValue("week_number"))
	return h.page(c, "evaluation", "Evaluation", d.State().Evaluation)
}
