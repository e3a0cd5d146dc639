package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"wasteportal/internal/utils"
)

// LoginRequest is the submitted login form.
type LoginRequest struct {
	AreaID   string
	Password string
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.AreaID) == "" || strings.TrimSpace(r.Password) == "" {
		return utils.Validation("credentials", "Please enter both Area ID and Password")
	}
	return nil
}

// Authenticator receives the raw credentials once a login submission completes.
type Authenticator func(areaID, password string)

// LoginForm validates login submissions and, after a fixed delay standing in
// for a round trip to a backend, hands them to its Authenticator.
type LoginForm struct {
	delay   time.Duration
	onLogin Authenticator

	mu      sync.Mutex
	pending int
}

func NewLoginForm(delay time.Duration, onLogin Authenticator) *LoginForm {
	return &LoginForm{
		delay:   delay,
		onLogin: onLogin,
	}
}

// Submit blocks for the form's delay and then calls the Authenticator. A
// validation failure returns before any wait. If ctx ends during the wait the
// Authenticator is not called and ctx.Err() is returned.
func (f *LoginForm) Submit(ctx context.Context, req LoginRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	f.setPending(1)
	defer f.setPending(-1)

	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	f.onLogin(req.AreaID, req.Password)
	return nil
}

// Submitting reports whether a submission is waiting out its delay.
func (f *LoginForm) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pending > 0
}

func (f *LoginForm) setPending(delta int) {
	f.mu.Lock()
	f.pending += delta
	f.mu.Unlock()
}
