package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kostecki-nokia/dashboard-export/creds"
	"github.com/kostecki-nokia/dashboard-export/errs"
)

const testApiKey = "test-key"

func newTestClient(t *testing.T, handler http.Handler) *DeepfieldClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewDeepfieldClient(server.URL, creds.Static(testApiKey), true)
	require.NoError(t, err)
	return client
}

func TestListDashboards(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/dashboards", r.URL.Path)
		require.Equal(t, testApiKey, r.Header.Get("X-API-KEY"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "name": "FW Stats", "slug": "fw-stats", "labels": ["Security"], "system": true, "enabled": true},
			{"id": 2, "name": "Custom Report", "slug": "custom-report", "labels": [], "system": false, "enabled": true}
		]`))
	}))

	dashboards, err := client.ListDashboards()
	require.NoError(t, err)
	require.Len(t, dashboards, 2)
	require.Equal(t, int64(1), dashboards[0].ID)
	require.Equal(t, "fw-stats", dashboards[0].Slug)
	require.True(t, dashboards[0].System)
	require.Equal(t, "custom-report", dashboards[1].Slug)
	require.False(t, dashboards[1].System)
}

func TestListDashboardsBadJson(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	}))

	_, err := client.ListDashboards()
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.API))
}

func TestGetDashboard(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/dashboards/2", r.URL.Path)
		require.Equal(t, testApiKey, r.Header.Get("X-API-KEY"))
		w.Write([]byte(`{"id": 2, "name": "Custom Report", "slug": "custom-report"}`))
	}))

	detail, err := client.GetDashboard(2)
	require.NoError(t, err)
	require.Equal(t, "custom-report", detail.Slug())
	require.Equal(t, "Custom Report", detail.Name())
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   string
	}{
		{http.StatusUnauthorized, errs.Auth},
		{http.StatusForbidden, errs.Permission},
		{http.StatusNotFound, errs.NotFound},
		{http.StatusInternalServerError, errs.API},
		{http.StatusBadGateway, errs.API},
	}

	for _, tc := range cases {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		_, err := client.GetDashboard(1)
		require.Error(t, err, "status %d", tc.status)
		require.True(t, errs.IsKind(err, tc.kind), "status %d: got kind %q", tc.status, errs.Kind(err))
	}
}

func TestApiErrorMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "query backend unavailable"}`))
	}))

	_, err := client.ListDashboards()
	require.Error(t, err)
	require.Contains(t, err.Error(), "query backend unavailable")
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewDeepfieldClient(url, creds.Static(testApiKey), true)
	require.NoError(t, err)

	_, err = client.ListDashboards()
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.Transport))
}

func TestSelfSignedCertificate(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	strict, err := NewDeepfieldClient(server.URL, creds.Static(testApiKey), true)
	require.NoError(t, err)
	_, err = strict.ListDashboards()
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.Transport))

	lax, err := NewDeepfieldClient(server.URL, creds.Static(testApiKey), false)
	require.NoError(t, err)
	_, err = lax.ListDashboards()
	require.NoError(t, err)
}

func TestBaseUrlTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/dashboards", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	client, err := NewDeepfieldClient(server.URL+"/", creds.Static(testApiKey), true)
	require.NoError(t, err)

	_, err = client.ListDashboards()
	require.NoError(t, err)
}

func TestInvalidBaseUrl(t *testing.T) {
	_, err := NewDeepfieldClient("://bad", creds.Static(testApiKey), true)
	require.Error(t, err)

	_, err = NewDeepfieldClient("local.deepfield.net", creds.Static(testApiKey), true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "absolute")
}

func TestCredentialFailureIsFatal(t *testing.T) {
	_, err := NewDeepfieldClient("https://local.deepfield.net", creds.Static(""), true)
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.Auth))
}
