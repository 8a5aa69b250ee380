package schemas

import (
	"time"
)

// -- Browser Connection Schemas --

// ConnectOptions is the pass-through options bag handed to the underlying
// CDP connect call. All fields are optional; zero values mean "library default".
type ConnectOptions struct {
	// Timeout bounds the single connection attempt. Zero means no explicit
	// deadline beyond whatever the caller's context carries.
	Timeout time.Duration `json:"timeout,omitempty" mapstructure:"timeout"`
	// SlowMo inserts a fixed pause before every action dispatched on the
	// resulting session. Useful for watching an automation run in headed mode.
	SlowMo time.Duration `json:"slow_mo,omitempty" mapstructure:"slow_mo"`
}

// PageInfo describes a single debuggable target (page, service worker, etc.)
// exposed by the connected browser.
type PageInfo struct {
	TargetID string `json:"targetId"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Attached bool   `json:"attached"`
}

// -- Page Snapshot Schemas --

// ElementRole classifies an interactive element found in a page snapshot.
type ElementRole string

const (
	RoleLink     ElementRole = "link"
	RoleButton   ElementRole = "button"
	RoleInput    ElementRole = "input"
	RoleSelect   ElementRole = "select"
	RoleTextarea ElementRole = "textarea"
)

// PageElement is one interactive element in a snapshot. Ref is a stable,
// snapshot-local handle ("@e1", "@e2", ...) an agent can use to address the
// element in a follow-up action.
type PageElement struct {
	Ref  string      `json:"ref"`
	Role ElementRole `json:"role"`
	Name string      `json:"name"`
	Href string      `json:"href,omitempty"`
}

// PageSnapshot is a compact, LLM-consumable inventory of the current page:
// where we are and what can be interacted with.
type PageSnapshot struct {
	URL      string        `json:"url"`
	Title    string        `json:"title"`
	Elements []PageElement `json:"elements"`
}

// -- Session Artifact Schemas --

// SessionArtifacts bundles everything collected from a session before it is
// torn down: final location, page content, and an optional screenshot.
type SessionArtifacts struct {
	SessionID  string    `json:"sessionId"`
	Endpoint   string    `json:"endpoint"`
	FinalURL   string    `json:"finalUrl"`
	Title      string    `json:"title"`
	HTML       string    `json:"html,omitempty"`
	Screenshot []byte    `json:"screenshot,omitempty"`
	CapturedAt time.Time `json:"capturedAt"`
}
