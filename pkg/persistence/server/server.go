// Package server implements persistence.Adapter against the remote preset API.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/otelhelper"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/moogar0880/problems"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// NonceHeader carries the ambient credential.
	NonceHeader = "X-WP-Nonce"
	// UserHeader carries the user identity the presets belong to.
	UserHeader = "X-User-ID"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
	itemsPath      = "items"
)

var (
	// ErrNotConfigured is returned by New when no API base is given.
	ErrNotConfigured = errors.New("preset API base not configured")
	// ErrUnexpectedResponse is returned when the API answers for a different preset.
	ErrUnexpectedResponse = errors.New("unexpected preset API response")
)

// Adapter talks to the preset API for one namespace.
type Adapter struct {
	base   string
	nonce  string
	ns     persistence.Namespace
	client *http.Client
	tracer trace.Tracer
}

var _ persistence.Adapter = (*Adapter)(nil)

// Option customizes an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) { a.client = client }
}

// WithTracer replaces the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Adapter) { a.tracer = tracer }
}

// New creates an adapter for baseURL, e.g. "https://example.com/wp-json/pf/v1".
func New(baseURL, nonce string, ns persistence.Namespace, opts ...Option) (*Adapter, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNotConfigured
	}

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid preset API base %q: %w", baseURL, err)
	}

	if err := ns.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{
		base:   baseURL,
		nonce:  nonce,
		ns:     ns,
		client: &http.Client{Timeout: defaultTimeout},
		tracer: otelhelper.Tracer("promptfinder.presets.server"),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

func (a *Adapter) endpoint(parts ...string) string {
	var b strings.Builder

	b.WriteString(a.base)
	b.WriteString("/presets/")
	b.WriteString(url.PathEscape(a.ns.WorkflowID))

	for _, part := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(part))
	}

	return b.String()
}

// do sends the request and decodes a 2xx JSON body into out when out is non-nil.
func (a *Adapter) do(ctx context.Context, op, method, target string, body, out any, attrs ...attribute.KeyValue) (err error) {
	attrs = append(attrs,
		attribute.String(otelhelper.WorkflowIDKey, a.ns.WorkflowID),
		attribute.String(otelhelper.OperationKey, op),
	)

	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "presets.server."+op, attrs...)
	defer func() {
		if err != nil {
			otelhelper.SetError(span, err, attrs...)
		}

		span.End()
	}()

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(UserHeader, a.ns.UserID)

	if a.nonce != "" {
		req.Header.Set(NonceHeader, a.nonce)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", persistence.ErrAdapterUnavailable, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	span.SetAttributes(attribute.Int(otelhelper.StatusCodeKey, resp.StatusCode))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteError(resp.StatusCode, respBody)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}

	return nil
}

func remoteError(status int, body []byte) *persistence.RemoteError {
	remote := &persistence.RemoteError{StatusCode: status}

	var problem problems.Problem
	if json.Unmarshal(body, &problem) == nil {
		remote.Type = problem.Type
		remote.Detail = problem.Detail
	}

	return remote
}

type listResponse struct {
	Presets []string `json:"presets"`
}

type presetResponse struct {
	Name string          `json:"name"`
	TS   int64           `json:"ts"`
	Data models.Snapshot `json:"data"`
}

type saveRequest struct {
	Data models.Snapshot `json:"data"`
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (a *Adapter) List(ctx context.Context) ([]string, error) {
	var out listResponse
	if err := a.do(ctx, "list", http.MethodGet, a.endpoint(), nil, &out); err != nil {
		return nil, persistence.NewPresetError("List", a.ns, "", err)
	}

	if out.Presets == nil {
		out.Presets = []string{}
	}

	return out.Presets, nil
}

func (a *Adapter) Get(ctx context.Context, name string) (models.Snapshot, error) {
	var out presetResponse

	err := a.do(ctx, "get", http.MethodGet, a.endpoint(itemsPath, name), nil, &out,
		attribute.String(otelhelper.PresetNameKey, name))
	if err != nil {
		var remote *persistence.RemoteError
		if errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound {
			err = fmt.Errorf("%w: %w", persistence.ErrPresetNotFound, err)
		}

		return nil, persistence.NewPresetError("Get", a.ns, name, err)
	}

	if out.Name != strings.TrimSpace(name) {
		return nil, persistence.NewPresetError("Get", a.ns, name,
			fmt.Errorf("%w: response is for preset %q", ErrUnexpectedResponse, out.Name))
	}

	if out.Data == nil {
		out.Data = models.Snapshot{}
	}

	return out.Data, nil
}

func (a *Adapter) Save(ctx context.Context, name string, snapshot models.Snapshot) error {
	valid, err := persistence.ValidatePresetName(name)
	if err != nil {
		return persistence.NewPresetError("Save", a.ns, name, err)
	}

	err = a.do(ctx, "save", http.MethodPut, a.endpoint(itemsPath, valid), saveRequest{Data: snapshot.Clone()}, nil,
		attribute.String(otelhelper.PresetNameKey, valid))
	if err != nil {
		return persistence.NewPresetError("Save", a.ns, valid, err)
	}

	return nil
}

func (a *Adapter) Delete(ctx context.Context, name string) error {
	err := a.do(ctx, "delete", http.MethodDelete, a.endpoint(itemsPath, name), nil, nil,
		attribute.String(otelhelper.PresetNameKey, name))
	if err != nil {
		return persistence.NewPresetError("Delete", a.ns, name, err)
	}

	return nil
}

func (a *Adapter) ExportAll(ctx context.Context) ([]byte, error) {
	var raw json.RawMessage
	if err := a.do(ctx, "export", http.MethodGet, a.endpoint("export"), nil, &raw); err != nil {
		return nil, persistence.NewPresetError("Export", a.ns, "", err)
	}

	c, err := persistence.DecodeCollection(raw)
	if err != nil {
		return nil, persistence.NewPresetError("Export", a.ns, "", err)
	}

	return persistence.EncodeCollection(c)
}

// ImportAll validates blob locally, then bulk imports it.
func (a *Adapter) ImportAll(ctx context.Context, blob []byte) error {
	c, err := persistence.DecodeCollection(blob)
	if err != nil {
		return persistence.NewPresetError("Import", a.ns, "", err)
	}

	var out importResponse
	if err := a.do(ctx, "import", http.MethodPost, a.endpoint("import"), c, &out); err != nil {
		return persistence.NewPresetError("Import", a.ns, "", err)
	}

	return nil
}
