// Package snowflake implements the platform boundary over the Snowflake
// SQL REST API. Every operation is a single synchronous statement; the
// client maps API failures onto the shared error taxonomy so the engine
// never sees provider-specific error shapes.
package snowflake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frostline-io/frostline/internal/logging"
	"github.com/frostline-io/frostline/internal/platform"
	"github.com/frostline-io/frostline/internal/spec"
)

const (
	statementsPath = "/api/v2/statements"
	defaultTimeout = 60 * time.Second
)

// Config carries what the client needs to reach one account.
type Config struct {
	Account string // account identifier, e.g. "myorg-myaccount"
	Host    string // full endpoint override; wins over Account when set
	Token   string // bearer token
	Timeout time.Duration
}

// Client talks to one Snowflake account.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	retry   *platform.RetryPolicy
	log     *slog.Logger
}

// New builds a Client from config.
func New(cfg Config) (*Client, error) {
	baseURL := cfg.Host
	if baseURL == "" {
		if cfg.Account == "" {
			return nil, platform.Configuration("snowflake: account or host is required")
		}
		baseURL = fmt.Sprintf("https://%s.snowflakecomputing.com", cfg.Account)
	}
	if cfg.Token == "" {
		return nil, platform.Configuration("snowflake: token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		retry:   platform.DefaultRetryPolicy(),
		log:     logging.For("snowflake"),
	}, nil
}

type statementRequest struct {
	Statement string `json:"statement"`
	Timeout   int64  `json:"timeout,omitempty"` // seconds, server-side
}

type statementResponse struct {
	Code              string     `json:"code"`
	Message           string     `json:"message"`
	SQLState          string     `json:"sqlState"`
	Data              [][]string `json:"data"`
	ResultSetMetaData struct {
		NumRows int64 `json:"numRows"`
		RowType []struct {
			Name string `json:"name"`
		} `json:"rowType"`
	} `json:"resultSetMetaData"`
}

type result struct {
	columns map[string]int
	rows    [][]string
}

func (r *result) column(row []string, name string) string {
	idx, ok := r.columns[strings.ToLower(name)]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// exec runs one statement, retrying transient failures with backoff.
func (c *Client) exec(ctx context.Context, stmt string) (*result, error) {
	c.log.Debug("executing statement", "sql", stmt)

	var res *result
	err := platform.RetryWithBackoff(ctx, c.retry, func() error {
		var execErr error
		res, execErr = c.doExec(ctx, stmt)
		return execErr
	}, platform.IsTransient)
	return res, err
}

func (c *Client) doExec(ctx context.Context, stmt string) (*result, error) {
	body, err := json.Marshal(statementRequest{Statement: stmt})
	if err != nil {
		return nil, fmt.Errorf("marshal statement: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+statementsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Snowflake-Authorization-Token-Type", "OAUTH")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, platform.Timeout("snowflake.exec", stmt, err)
		}
		return nil, fmt.Errorf("post statement: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var decoded statementResponse
	if len(payload) > 0 {
		// A failed decode on an error status still classifies below.
		_ = json.Unmarshal(payload, &decoded)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classify(resp.StatusCode, decoded.Message, stmt)
	}

	res := &result{
		columns: make(map[string]int, len(decoded.ResultSetMetaData.RowType)),
		rows:    decoded.Data,
	}
	for i, col := range decoded.ResultSetMetaData.RowType {
		res.columns[strings.ToLower(col.Name)] = i
	}
	return res, nil
}

// classify maps an API failure onto the shared taxonomy.
func classify(status int, message, stmt string) error {
	msg := strings.ToLower(message)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return platform.PermissionDenied("snowflake.exec", stmt, fmt.Errorf("status %d: %s", status, message))
	case strings.Contains(msg, "does not exist"):
		return platform.NotFound("snowflake.exec", stmt)
	case strings.Contains(msg, "active service") || strings.Contains(msg, "being used by") || strings.Contains(msg, "dependent object"):
		return platform.DependencyBlocked("snowflake.exec", stmt, message)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return platform.Timeout("snowflake.exec", stmt, fmt.Errorf("status %d: %s", status, message))
	default:
		return fmt.Errorf("statement failed with status %d: %s", status, message)
	}
}

// Exists implements platform.Client via a narrowed SHOW.
func (c *Client) Exists(ctx context.Context, kind spec.Kind, name string) (bool, error) {
	stmt, err := renderShow(kind, scopeOf(name), name)
	if err != nil {
		return false, err
	}
	res, err := c.exec(ctx, stmt)
	if err != nil {
		return false, err
	}
	return len(res.rows) > 0, nil
}

// Create implements platform.Client.
func (c *Client) Create(ctx context.Context, res *spec.Resource) error {
	stmt, err := renderCreate(res)
	if err != nil {
		return err
	}
	_, err = c.exec(ctx, stmt)
	return err
}

// Drop implements platform.Client. The rendered statement already carries
// IF EXISTS, so an absent resource returns success from the API side too.
func (c *Client) Drop(ctx context.Context, kind spec.Kind, name string) error {
	stmt, err := renderDrop(kind, name)
	if err != nil {
		return err
	}
	_, err = c.exec(ctx, stmt)
	return err
}

// List implements platform.Client. Names come back qualified so they feed
// straight into Drop and Attribute.
func (c *Client) List(ctx context.Context, kind spec.Kind, scope string) ([]platform.Object, error) {
	stmt, err := renderShow(kind, scope, "")
	if err != nil {
		return nil, err
	}
	res, err := c.exec(ctx, stmt)
	if err != nil {
		return nil, err
	}

	objects := make([]platform.Object, 0, len(res.rows))
	for _, row := range res.rows {
		name := res.column(row, "name")
		if name == "" {
			continue
		}
		if scope != "" {
			name = scope + "." + name
		}
		objects = append(objects, platform.Object{Kind: kind, Name: name})
	}
	return objects, nil
}

// Attribute implements platform.Client, reading one SHOW output column.
func (c *Client) Attribute(ctx context.Context, kind spec.Kind, name, attr string) (string, error) {
	stmt, err := renderShow(kind, scopeOf(name), name)
	if err != nil {
		return "", err
	}
	res, err := c.exec(ctx, stmt)
	if err != nil {
		return "", err
	}
	if len(res.rows) == 0 {
		return "", platform.NotFound("snowflake.attribute", name)
	}

	column := attr
	if mapped, ok := attributeColumn[attr]; ok {
		column = mapped
	}
	return res.column(res.rows[0], column), nil
}

// Alter implements platform.Client. Option sets that need several
// statements run them in order and stop on the first failure.
func (c *Client) Alter(ctx context.Context, kind spec.Kind, name string, options map[string]string) error {
	stmts, err := renderAlter(kind, name, options)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := c.exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Put implements platform.Client. The statements API has no file-upload
// surface; artifact publishing against a real account goes through the
// external-stage storage publisher instead.
func (c *Client) Put(_ context.Context, path string, _ []byte) error {
	return fmt.Errorf("snowflake: direct stage upload of %s is not supported; configure external-stage storage for artifact publishing", path)
}

// ListFiles implements platform.Client via LIST on the stage path.
func (c *Client) ListFiles(ctx context.Context, scope string) ([]string, error) {
	res, err := c.exec(ctx, "LIST "+scope)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(res.rows))
	for _, row := range res.rows {
		if name := res.column(row, "name"); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// scopeOf returns the containing schema of a qualified name, or "" for
// account-level names.
func scopeOf(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) < 3 {
		return ""
	}
	return strings.Join(parts[:len(parts)-1], ".")
}
