// Package persistence defines the preset storage contract shared by the
// local and server adapters, and the repository contract behind the preset API.
package persistence

import (
	"context"
	"net/url"
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
)

// AnonymousUser is the identity used when no user is signed in.
const AnonymousUser = "0"

// Namespace scopes presets and drafts to one workflow and one user. Presets
// of one namespace are invisible to every other.
type Namespace struct {
	WorkflowID string
	UserID     string
}

// NewNamespace trims both identifiers and substitutes AnonymousUser for an
// empty user.
func NewNamespace(workflowID, userID string) Namespace {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = AnonymousUser
	}

	return Namespace{WorkflowID: strings.TrimSpace(workflowID), UserID: userID}
}

// Validate reports ErrInvalidNamespace when the workflow id is missing.
func (n Namespace) Validate() error {
	if n.WorkflowID == "" {
		return ErrInvalidNamespace
	}

	return nil
}

// String joins the escaped identifiers, so distinct namespaces never share
// a storage key.
func (n Namespace) String() string {
	return url.QueryEscape(n.WorkflowID) + ":" + url.QueryEscape(n.UserID)
}

// Adapter is the preset contract both the local and the server backend
// implement for one namespace.
type Adapter interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (models.Snapshot, error)
	Save(ctx context.Context, name string, snapshot models.Snapshot) error
	Delete(ctx context.Context, name string) error
	ExportAll(ctx context.Context) ([]byte, error)
	ImportAll(ctx context.Context, blob []byte) error
}

// PresetRepository stores presets for many namespaces. It backs the preset API.
type PresetRepository interface {
	Presets(ctx context.Context, ns Namespace) (models.PresetCollection, error)
	PresetByName(ctx context.Context, ns Namespace, name string) (models.PresetEntry, error)
	SavePreset(ctx context.Context, ns Namespace, name string, entry models.PresetEntry) error
	DeletePreset(ctx context.Context, ns Namespace, name string) error
	ImportPresets(ctx context.Context, ns Namespace, collection models.PresetCollection) (int, error)
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
