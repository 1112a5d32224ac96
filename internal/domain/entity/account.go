// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account is the registered identity behind every session, profile and post.
// Credential and code fields never leave the process: they are tagged out of JSON.
type Account struct {
	ID             uuid.UUID `json:"id"`
	UserName       string    `json:"userName"`
	Email          string    `json:"email,omitempty"`
	PasswordHash   string    `json:"-"`
	IsVerified     bool      `json:"isVerified"`
	Bio            string    `json:"bio"`
	ProfilePicture MediaRef  `json:"profilePicture"`

	OTPCode      *string    `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`

	ResetOTPCode      *string    `json:"-"`
	ResetOTPExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeEmail lower-cases and trims an email address before it is stored or compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUserName trims surrounding whitespace from a user name.
func NormalizeUserName(userName string) string {
	return strings.TrimSpace(userName)
}

// IssueVerificationOTP replaces any pending verification code.
func (a *Account) IssueVerificationOTP(code string, expiresAt time.Time) {
	a.OTPCode = &code
	a.OTPExpiresAt = &expiresAt
}

// ClearVerificationOTP drops the verification code and its expiry together.
func (a *Account) ClearVerificationOTP() {
	a.OTPCode = nil
	a.OTPExpiresAt = nil
}

// HasVerificationOTP reports whether a verification code is pending.
func (a *Account) HasVerificationOTP() bool {
	return a.OTPCode != nil && a.OTPExpiresAt != nil
}

// MatchVerificationOTP compares code against the pending verification code.
// The comparison is constant time.
func (a *Account) MatchVerificationOTP(code string) bool {
	if !a.HasVerificationOTP() {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(*a.OTPCode), []byte(code)) == 1
}

// VerificationOTPExpired reports whether now is past the verification expiry.
// A code is still valid at the exact instant of expiry.
func (a *Account) VerificationOTPExpired(now time.Time) bool {
	if a.OTPExpiresAt == nil {
		return true
	}

	return now.After(*a.OTPExpiresAt)
}

// MarkVerified consumes the verification code. IsVerified only ever moves to true.
func (a *Account) MarkVerified() {
	a.IsVerified = true
	a.ClearVerificationOTP()
}

// IssueResetOTP overwrites any earlier reset code, invalidating it.
func (a *Account) IssueResetOTP(code string, expiresAt time.Time) {
	a.ResetOTPCode = &code
	a.ResetOTPExpiresAt = &expiresAt
}

// ClearResetOTP drops the reset code and its expiry together.
func (a *Account) ClearResetOTP() {
	a.ResetOTPCode = nil
	a.ResetOTPExpiresAt = nil
}

// Public returns a copy safe to show to other accounts.
func (a *Account) Public() *Account {
	public := *a
	public.Email = ""
	public.PasswordHash = ""
	public.ClearVerificationOTP()
	public.ClearResetOTP()

	return &public
}

// Authenticated returns the view of the account attached to a verified session.
func (a *Account) Authenticated() *AuthenticatedAccount {
	return &AuthenticatedAccount{
		ID:         a.ID,
		UserName:   a.UserName,
		Email:      a.Email,
		IsVerified: a.IsVerified,
	}
}

// AuthenticatedAccount is what the authentication gate hands to protected handlers.
// It never carries credential material.
type AuthenticatedAccount struct {
	ID         uuid.UUID
	UserName   string
	Email      string
	IsVerified bool
}
