// Package page holds the navigation helpers shared by page objects.
package page

import (
	"sync"

	"ui-template/internal/adapter/component"
)

// Site is the application under test as one test sees it. Credentials go
// out with the first navigation only.
type Site struct {
	Env      *component.Env
	BaseURL  string
	User     string
	Password string

	mu         sync.Mutex
	authorized bool
	mainTab    string
}

func NewSite(env *component.Env, baseURL, user, password string) *Site {
	return &Site{
		Env:      env,
		BaseURL:  baseURL,
		User:     user,
		Password: password,
		mainTab:  env.Session.CurrentTab().ID,
	}
}

// MainTab is the tab that was active when the site was created.
func (s *Site) MainTab() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mainTab
}

// authorize reports whether the next navigation still has to carry the
// credentials and marks them as sent.
func (s *Site) authorize() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	first := !s.authorized
	s.authorized = true
	return first
}
