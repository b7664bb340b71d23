package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
	v1 "github.com/pojntfx/tget/pkg/api/http/v1"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

type Manager struct {
	url      string
	username string
	password string
	ctx      context.Context
}

func NewManager(
	url string,
	username string,
	password string,
	ctx context.Context,
) *Manager {
	return &Manager{
		url:      url,
		username: username,
		password: password,
		ctx:      ctx,
	}
}

func (m *Manager) GetStatus() (v1.Status, error) {
	hc := &http.Client{}

	baseURL, err := url.Parse(m.url)
	if err != nil {
		return v1.Status{}, err
	}

	statusSuffix, err := url.Parse("/status")
	if err != nil {
		return v1.Status{}, err
	}

	statusURL := baseURL.ResolveReference(statusSuffix)

	req, err := http.NewRequestWithContext(m.ctx, http.MethodGet, statusURL.String(), http.NoBody)
	if err != nil {
		return v1.Status{}, err
	}
	req.SetBasicAuth(m.username, m.password)

	res, err := hc.Do(req)
	if err != nil {
		return v1.Status{}, err
	}
	if res.Body != nil {
		defer res.Body.Close()
	}
	if res.StatusCode != http.StatusOK {
		return v1.Status{}, errors.New(res.Status)
	}

	status := v1.Status{}
	dec := json.NewDecoder(res.Body)
	if err := dec.Decode(&status); err != nil {
		return v1.Status{}, err
	}

	return status, nil
}
