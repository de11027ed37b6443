// Package careerapi talks to the remote career navigator backend.
package careerapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("career api %s: status %d", e.Endpoint, e.Code)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

type Client struct {
	base    string
	timeout time.Duration
}

// New returns a client for the API rooted at base. A zero timeout waits forever.
func New(base string, timeout time.Duration) *Client {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return &Client{base: base, timeout: timeout}
}

func (c *Client) url(path string, query url.Values) string {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends a and decodes a 2xx body into out (when out is non-nil).
func (c *Client) do(endpoint string, a *fiber.Agent, out any) error {
	if c.timeout > 0 {
		a.Timeout(c.timeout)
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		requests.WithLabelValues(endpoint, "transport").Inc()
		return fmt.Errorf("career api %s: %w", endpoint, errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		requests.WithLabelValues(endpoint, "status").Inc()
		if len(body) > 512 {
			body = body[:512]
		}
		return &StatusError{Endpoint: endpoint, Code: code, Body: string(body)}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			requests.WithLabelValues(endpoint, "decode").Inc()
			return fmt.Errorf("career api %s: decode: %w", endpoint, err)
		}
	}
	requests.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

func (c *Client) CreateProfile(req domain.ProfileRequest) (domain.ProfileCreated, error) {
	var out domain.ProfileCreated
	err := c.do("profile_create", fiber.Post(c.url("/profile/create", nil)).JSON(req), &out)
	return out, err
}

// UploadResume sends the file as the multipart field "file".
func (c *Client) UploadResume(userID, filename string, content []byte) (domain.UploadResult, error) {
	return c.upload("profile_upload_resume", "/profile/upload-resume/", userID, filename, content)
}

func (c *Client) UploadLinkedIn(userID, filename string, content []byte) (domain.UploadResult, error) {
	return c.upload("profile_upload_linkedin", "/profile/upload-linkedin/", userID, filename, content)
}

func (c *Client) upload(endpoint, prefix, userID, filename string, content []byte) (domain.UploadResult, error) {
	a := fiber.Post(c.url(prefix+url.PathEscape(userID), nil)).
		FileData(&fiber.FormFile{Fieldname: "file", Name: filename, Content: content}).
		MultipartForm(nil)
	var out domain.UploadResult
	err := c.do(endpoint, a, &out)
	return out, err
}

func (c *Client) AnalyzeMarket(role string) (domain.MarketAnalysis, error) {
	var out domain.MarketAnalysis
	err := c.do("market_analyze", fiber.Get(c.url("/market/analyze/"+url.PathEscape(role), nil)), &out)
	return out, err
}

func (c *Client) SkillGaps(userID string) (domain.SkillGaps, error) {
	var out domain.SkillGaps
	err := c.do("gaps", fiber.Get(c.url("/gaps/"+url.PathEscape(userID), nil)), &out)
	return out, err
}

// GenerateRoadmap asks the backend to (re)build the roadmap; fetch it with Roadmap.
func (c *Client) GenerateRoadmap(userID, dreamRole string) error {
	q := url.Values{"dream_role": {dreamRole}}
	return c.do("roadmap_generate", fiber.Post(c.url("/roadmap/generate/"+url.PathEscape(userID), q)), nil)
}

func (c *Client) Roadmap(userID string) (domain.Roadmap, error) {
	var out domain.Roadmap
	err := c.do("roadmap", fiber.Get(c.url("/roadmap/"+url.PathEscape(userID), nil)), &out)
	return out, err
}

func (c *Client) RunEvaluation(userID string, week int) (domain.Evaluation, error) {
	q := url.Values{"week_number": {strconv.Itoa(week)}}
	var out domain.Evaluation
	err := c.do("evaluation_run", fiber.Post(c.url("/evaluation/run/"+url.PathEscape(userID), q)), &out)
	return out, err
}
