package enroll

import (
	"context"
	"errors"
	"strings"

	"github.com/barqchain/walletctl/internal/session"
)

// State identifies the current step of the enrollment sequence.
type State int

const (
	// AwaitingEmail collects the address a verification code is sent to.
	AwaitingEmail State = iota
	// AwaitingCode collects the one-time code.
	AwaitingCode
	// AwaitingProfile collects the remaining registration fields.
	AwaitingProfile
	// Done means the flow handed off to the session store successfully.
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingEmail:
		return "awaiting-email"
	case AwaitingCode:
		return "awaiting-code"
	case AwaitingProfile:
		return "awaiting-profile"
	default:
		return "done"
	}
}

const (
	// CodeLength is the fixed length of the one-time code.
	CodeLength = 6
	// MinPasswordLength is the local minimum for a new password.
	MinPasswordLength = 6
)

// Local precondition errors; none of them leaves the client.
var (
	ErrInvalidState     = errors.New("operation not allowed in current enrollment step")
	ErrInvalidEmail     = errors.New("a valid email address is required")
	ErrInvalidCode      = errors.New("code must be 6 digits")
	ErrIncompleteForm   = errors.New("full name and national id are required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// Gateway is the slice of the remote gateway the flow needs.
type Gateway interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
}

// Enroller finalizes enrollment; the session store implements it.
type Enroller interface {
	Enroll(ctx context.Context, profile session.EnrollmentProfile) (session.Session, error)
}

// Profile carries the fields collected in the final step.
type Profile struct {
	FullName        string
	NationalID      string
	Password        string
	ConfirmPassword string
}

// Flow is the three-step identity-verification sequence gating account
// creation. Transitions happen only on successful remote calls; failures
// leave the state untouched so the caller can retry the same step.
type Flow struct {
	gateway  Gateway
	enroller Enroller
	state    State
	email    string
}

// NewFlow starts a flow at AwaitingEmail.
func NewFlow(gateway Gateway, enroller Enroller) *Flow {
	return &Flow{gateway: gateway, enroller: enroller, state: AwaitingEmail}
}

// State returns the current step.
func (f *Flow) State() State {
	return f.state
}

// Email returns the address the pending code was sent to.
func (f *Flow) Email() string {
	return f.email
}

// RequestCode asks the service to send a one-time code. From AwaitingEmail a
// success advances to AwaitingCode; from AwaitingCode it resends to the
// stored address without changing state.
func (f *Flow) RequestCode(ctx context.Context, email string) error {
	switch f.state {
	case AwaitingEmail:
		email = strings.TrimSpace(email)
		if email == "" || !strings.Contains(email, "@") {
			return ErrInvalidEmail
		}
		if err := f.gateway.SendOTP(ctx, email); err != nil {
			return err
		}
		f.email = email
		f.state = AwaitingCode
		return nil
	case AwaitingCode:
		return f.gateway.SendOTP(ctx, f.email)
	default:
		return ErrInvalidState
	}
}

// VerifyCode confirms the one-time code. On success the flow advances to
// AwaitingProfile; on failure it stays at AwaitingCode and the caller should
// clear the code input.
func (f *Flow) VerifyCode(ctx context.Context, code string) error {
	if f.state != AwaitingCode {
		return ErrInvalidState
	}
	if !isNumericCode(code) {
		return ErrInvalidCode
	}
	if err := f.gateway.VerifyOTP(ctx, f.email, code); err != nil {
		return err
	}
	f.state = AwaitingProfile
	return nil
}

// ChangeEmail returns from AwaitingCode to AwaitingEmail, discarding the
// pending code.
func (f *Flow) ChangeEmail() error {
	if f.state != AwaitingCode {
		return ErrInvalidState
	}
	f.email = ""
	f.state = AwaitingEmail
	return nil
}

// SubmitProfile validates the profile locally and hands off to the session
// store. On success the flow is terminal; on enrollment failure the error is
// surfaced and the caller may retry this same step.
func (f *Flow) SubmitProfile(ctx context.Context, p Profile) (session.Session, error) {
	if f.state != AwaitingProfile {
		return session.Session{}, ErrInvalidState
	}
	if strings.TrimSpace(p.FullName) == "" || strings.TrimSpace(p.NationalID) == "" {
		return session.Session{}, ErrIncompleteForm
	}
	if p.Password != p.ConfirmPassword {
		return session.Session{}, ErrPasswordMismatch
	}
	if len(p.Password) < MinPasswordLength {
		return session.Session{}, ErrPasswordTooShort
	}

	sess, err := f.enroller.Enroll(ctx, session.EnrollmentProfile{
		Email:      f.email,
		FullName:   strings.TrimSpace(p.FullName),
		NationalID: strings.TrimSpace(p.NationalID),
		Password:   p.Password,
	})
	if err != nil {
		return session.Session{}, err
	}
	f.state = Done
	return sess, nil
}

func isNumericCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
