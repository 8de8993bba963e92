package rest

import (
	"context"
	"net/url"

	"github.com/agentstation/dremio/pkg/errors"
)

// Reflection is a materialization defined on a dataset.
type Reflection struct {
	ID               string           `json:"id"`
	Type             string           `json:"type"`
	Name             string           `json:"name"`
	Tag              string           `json:"tag,omitempty"`
	CreatedAt        string           `json:"createdAt,omitempty"`
	UpdatedAt        string           `json:"updatedAt,omitempty"`
	DatasetID        string           `json:"datasetId"`
	CurrentSizeBytes int64            `json:"currentSizeBytes,omitempty"`
	TotalSizeBytes   int64            `json:"totalSizeBytes,omitempty"`
	Enabled          bool             `json:"enabled"`
	Status           ReflectionStatus `json:"status"`
}

// ReflectionStatus is the health of a reflection.
type ReflectionStatus struct {
	Config        string `json:"config,omitempty"`
	Refresh       string `json:"refresh,omitempty"`
	Availability  string `json:"availability,omitempty"`
	FailureCount  int    `json:"failureCount,omitempty"`
	LastDataFetch string `json:"lastDataFetch,omitempty"`
	ExpiresAt     string `json:"expiresAt,omitempty"`
}

// Queue is a workload management queue.
type Queue struct {
	ID                    string `json:"id"`
	Tag                   string `json:"tag,omitempty"`
	Name                  string `json:"name"`
	CPUTier               string `json:"cpuTier,omitempty"`
	MaxAllowedRunningJobs int    `json:"maxAllowedRunningJobs,omitempty"`
	MaxStartTimeoutMs     int64  `json:"maxStartTimeoutMs,omitempty"`
}

// Rule routes jobs to a workload management queue.
type Rule struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Conditions string `json:"conditions,omitempty"`
	AcceptID   string `json:"acceptId,omitempty"`
	AcceptName string `json:"acceptName,omitempty"`
	Action     string `json:"action,omitempty"`
}

// Vote is a reflection recommendation for a dataset.
type Vote struct {
	ID                     string   `json:"id"`
	DatasetID              string   `json:"datasetId"`
	DatasetPath            []string `json:"datasetPath"`
	DatasetType            string   `json:"datasetType,omitempty"`
	DatasetReflectionCount int      `json:"datasetReflectionCount"`
	Votes                  int      `json:"votes"`
}

// User is a coordinator account.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Tag       string `json:"tag,omitempty"`
}

// Group is a set of users.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AccessToken describes a personal access token. The secret itself is
// never returned.
type AccessToken struct {
	ID        string `json:"tid"`
	UID       string `json:"uid,omitempty"`
	Label     string `json:"label"`
	CreatedAt string `json:"createdAt,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// Reflections lists reflections; summary requests the lighter listing.
func (c *Client) Reflections(ctx context.Context, summary bool) ([]Reflection, error) {
	endpoint := "/reflection"
	if summary {
		endpoint += "/summary"
	}
	return list[Reflection](ctx, c, endpoint)
}

// Reflection fetches one reflection.
func (c *Client) Reflection(ctx context.Context, id string) (Reflection, error) {
	var r Reflection
	err := c.get(ctx, "/reflection/"+url.PathEscape(id), nil, &r)
	return r, err
}

// Queues lists workload management queues.
func (c *Client) Queues(ctx context.Context) ([]Queue, error) {
	return list[Queue](ctx, c, "/wlm/queue")
}

type rulesEnvelope struct {
	Rules []Rule `json:"rules"`
}

// Rules lists workload management rules.
func (c *Client) Rules(ctx context.Context) ([]Rule, error) {
	var env rulesEnvelope
	if err := c.get(ctx, "/wlm/rule", nil, &env); err != nil {
		return nil, err
	}
	return env.Rules, nil
}

// Votes lists reflection votes.
func (c *Client) Votes(ctx context.Context) ([]Vote, error) {
	return list[Vote](ctx, c, "/vote")
}

// User fetches a user by id, or by name when id is empty.
func (c *Client) User(ctx context.Context, id, name string) (User, error) {
	endpoint, err := idOrName("/user", id, name)
	if err != nil {
		return User{}, err
	}
	var u User
	err = c.get(ctx, endpoint, nil, &u)
	return u, err
}

// Group fetches a group by id, or by name when id is empty.
func (c *Client) Group(ctx context.Context, id, name string) (Group, error) {
	endpoint, err := idOrName("/group", id, name)
	if err != nil {
		return Group{}, err
	}
	var g Group
	err = c.get(ctx, endpoint, nil, &g)
	return g, err
}

// AccessTokens lists the personal access tokens of a user.
func (c *Client) AccessTokens(ctx context.Context, userID string) ([]AccessToken, error) {
	if userID == "" {
		return nil, errors.NewValidationError("userID", userID, "required")
	}
	return list[AccessToken](ctx, c, "/user/"+url.PathEscape(userID)+"/token")
}

func idOrName(base, id, name string) (string, error) {
	switch {
	case id != "":
		return base + "/" + url.PathEscape(id), nil
	case name != "":
		return base + "/by-name/" + url.PathEscape(name), nil
	default:
		return "", errors.NewValidationError("id", nil, "either id or name is required")
	}
}
