package client

import (
	"net/http"
	"net/url"
	"time"
)

type Office struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AdminID   string    `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Line struct {
	ID        string    `json:"id"`
	OfficeID  string    `json:"office_id"`
	Name      string    `json:"name"`
	Number    string    `json:"number"`
	CreatedAt time.Time `json:"created_at"`
}

type Enterprise struct {
	ID        string    `json:"id"`
	OfficeID  string    `json:"office_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Grant struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	OfficeID     string    `json:"office_id"`
	ResourceKind string    `json:"resource_kind"`
	ResourceID   string    `json:"resource_id"`
	Level        int       `json:"level"`
	CreatedAt    time.Time `json:"created_at"`
}

type LineList struct {
	OfficeID string  `json:"office_id"`
	Lines    []*Line `json:"lines"`
}

// HistoryItem is the single-key wrapper form a history entry arrives in:
// the key names the record kind and the value holds its fields.
type HistoryItem map[string]map[string]interface{}

// Kind returns the wrapper key of the item, or "" when the item is empty.
func (h HistoryItem) Kind() string {
	for k := range h {
		return k
	}
	return ""
}

type History struct {
	EnterpriseID string        `json:"enterprise_id"`
	Count        int           `json:"count"`
	History      []HistoryItem `json:"history"`
}

// IngestRecord mirrors the wrapper shape the ingest endpoint accepts:
// exactly one of the four kind fields must be set.
type IngestRecord struct {
	Call      map[string]interface{} `json:"call,omitempty"`
	Message   map[string]interface{} `json:"message,omitempty"`
	CallV2    map[string]interface{} `json:"call_v2,omitempty"`
	MessageV2 map[string]interface{} `json:"message_v2,omitempty"`
}

func (c *Client) ListLines(officeID string) (*LineList, error) {
	var resp LineList
	if err := c.do(http.MethodGet, "/api/v1/offices/"+officeID+"/lines", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateLine(officeID, name, number string) (*Line, error) {
	payload := map[string]string{
		"name":   name,
		"number": number,
	}

	var line Line
	if err := c.do(http.MethodPost, "/api/v1/offices/"+officeID+"/lines", payload, &line); err != nil {
		return nil, err
	}
	return &line, nil
}

// History fetches an enterprise history feed. dateStart and dateEnd are
// optional; the server only applies the window when both are present.
func (c *Client) History(enterpriseID, dateStart, dateEnd string) (*History, error) {
	path := "/api/v1/enterprises/" + enterpriseID + "/history"

	params := url.Values{}
	if dateStart != "" {
		params.Set("date_start", dateStart)
	}
	if dateEnd != "" {
		params.Set("date_end", dateEnd)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp History
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Ingest(enterpriseID string, record *IngestRecord) (HistoryItem, error) {
	var item HistoryItem
	if err := c.do(http.MethodPost, "/api/v1/enterprises/"+enterpriseID+"/records", record, &item); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *Client) CreateOffice(name, adminID string) (*Office, error) {
	payload := map[string]string{
		"name":     name,
		"admin_id": adminID,
	}

	var office Office
	if err := c.do(http.MethodPost, "/api/v1/offices", payload, &office); err != nil {
		return nil, err
	}
	return &office, nil
}

func (c *Client) CreateEnterprise(officeID, name string) (*Enterprise, error) {
	payload := map[string]string{
		"office_id": officeID,
		"name":      name,
	}

	var ent Enterprise
	if err := c.do(http.MethodPost, "/api/v1/enterprises", payload, &ent); err != nil {
		return nil, err
	}
	return &ent, nil
}

func (c *Client) CreateGrant(officeID, userID, resourceKind, resourceID string, level int) (*Grant, error) {
	payload := map[string]interface{}{
		"user_id":       userID,
		"resource_kind": resourceKind,
		"resource_id":   resourceID,
		"level":         level,
	}

	var grant Grant
	if err := c.do(http.MethodPost, "/api/v1/offices/"+officeID+"/grants", payload, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (c *Client) CreateUser(username, email, password string, superuser bool, roles []string) (*User, error) {
	payload := map[string]interface{}{
		"username":  username,
		"email":     email,
		"password":  password,
		"superuser": superuser,
		"roles":     roles,
	}

	var user User
	if err := c.do(http.MethodPost, "/api/v1/users", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
