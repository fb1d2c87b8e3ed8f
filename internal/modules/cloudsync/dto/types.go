package dto

import "cradle/internal/modules/cloudsync/domain"

type (
	Snapshot         = domain.Snapshot
	PortableSettings = domain.PortableSettings
	Counts           = domain.Counts
)

// Skip reasons of a bootstrap that did not upload.
const (
	SkipNoUser   = "no_user"
	SkipNoToken  = "no_token"
	SkipDone     = "already_done"
	SkipNotBound = "not_invite_bound"
	SkipBusy     = "busy"
)

type BootstrapOutput struct {
	UserID     string
	Uploaded   bool
	Skipped    string
	UploadedAt string
	Counts     Counts
}

type PushOutput struct {
	UploadedAt string
	Counts     Counts
}

type PullOutput struct {
	Found      bool
	UploadedAt string
	Snapshot   Snapshot
}
