// Package constants holds provider names and limits shared across layers.
package constants

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Deployment environments
const (
	EnvDevelop = "development"
)

// Mail providers
const (
	MailProviderSMTP = "smtp"
	MailProviderLog  = "log"
)

// Content limits carried over from the account and post models.
const (
	MinPasswordLength   = 8
	MinUserNameLength   = 3
	MaxUserNameLength   = 30
	MaxBioLength        = 150
	MaxCaptionLength    = 2200
	MaxCommentLength    = 2200
	SuggestedUsersLimit = 10
	DefaultPageSize     = 20
	MaxPageSize         = 100
)
