package main

import (
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/samber/oops"
	"github.com/tidwall/gjson"

	"github.com/kostecki-nokia/dashboard-export/creds"
	"github.com/kostecki-nokia/dashboard-export/errs"
	"github.com/kostecki-nokia/dashboard-export/models"
)

type DeepfieldClient struct {
	baseUrl string
	apiKey  string
	client  *http.Client
}

func NewDeepfieldClient(baseUrl string, provider creds.Provider, verifySsl bool) (*DeepfieldClient, error) {
	oopsBuilder := oops.
		In("NewDeepfieldClient").
		With("baseUrl", baseUrl)

	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, oopsBuilder.Wrap(err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, oopsBuilder.Errorf("base URL must be absolute")
	}

	apiKey, err := provider.APIKey()
	if err != nil {
		return nil, err
	}

	client := &http.Client{}
	if !verifySsl {
		logger.Warn("TLS certificate verification is disabled")
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		}
	}

	return &DeepfieldClient{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		apiKey:  apiKey,
		client:  client,
	}, nil
}

func (c *DeepfieldClient) do_request(method string, endpoint string) ([]byte, error) {
	oopsBuilder := oops.
		In("DeepfieldClient::do_request").
		With("method", method).
		With("endpoint", endpoint)

	fullUrl := c.baseUrl + endpoint
	req, err := http.NewRequest(method, fullUrl, nil)
	logger.Debug(
		"Creating request",
		"method",
		method,
		"url",
		fullUrl,
	)
	if err != nil {
		return nil, oopsBuilder.Wrap(err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, oopsBuilder.
			Code(errs.Transport).
			Wrap(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, oopsBuilder.
			Code(errs.Transport).
			Wrap(err)
	}

	logger.Debug(
		"Response",
		"statusCode",
		res.StatusCode,
		"body",
		string(body),
	)

	oopsBuilder = oopsBuilder.With("statusCode", res.StatusCode)
	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return nil, oopsBuilder.
			Code(errs.Auth).
			Errorf("API key rejected")
	case res.StatusCode == http.StatusForbidden:
		return nil, oopsBuilder.
			Code(errs.Permission).
			Errorf("permission denied")
	case res.StatusCode == http.StatusNotFound:
		return nil, oopsBuilder.
			Code(errs.NotFound).
			Errorf("not found")
	case res.StatusCode < 200 || res.StatusCode > 299:
		return nil, oopsBuilder.
			Code(errs.API).
			Errorf("%s", apiMessage(body, res.Status))
	}

	return body, nil
}

// Implements GET /api/dashboards
func (c *DeepfieldClient) ListDashboards() ([]models.DashboardSummary, error) {
	body, err := c.do_request("GET", "/api/dashboards")
	if err != nil {
		return nil, err
	}

	var dashboards []models.DashboardSummary
	if err := json.Unmarshal(body, &dashboards); err != nil {
		return nil, oops.
			In("ListDashboards").
			Code(errs.API).
			With("json", string(body)).
			Wrap(err)
	}

	logger.Info("Fetched dashboard list", "count", len(dashboards))
	logger.Debug(spew.Sdump(dashboards))
	return dashboards, nil
}

// Implements GET /api/dashboards/{id}
func (c *DeepfieldClient) GetDashboard(id int64) (*models.DashboardDetail, error) {
	body, err := c.do_request("GET", "/api/dashboards/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}

	var detail models.DashboardDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, oops.
			In("GetDashboard").
			Code(errs.API).
			With("id", id).
			With("json", string(body)).
			Wrap(err)
	}

	return &detail, nil
}

// apiMessage digs a human-readable message out of an error response body,
// falling back to the HTTP status line.
func apiMessage(body []byte, fallback string) string {
	if msg := gjson.GetBytes(body, "message"); msg.Exists() {
		return msg.String()
	}
	if msg := gjson.GetBytes(body, "error"); msg.Exists() {
		return msg.String()
	}
	return fallback
}
