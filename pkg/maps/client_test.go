package maps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestGeocodeSendsSearchRequest(t *testing.T) {
	const expectedURL = "http://maps.test/v1/places:searchText"
	respBody := `{"places":[{"id":"place_1","formattedAddress":"1 Rue Thiers, 64100 Bayonne","location":{"latitude":43.49,"longitude":-1.47}}]}`

	var capturedURL string
	var capturedHeaders http.Header
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()

		var payload map[string]any
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if payload["textQuery"] != "1 rue Thiers Bayonne" {
			t.Fatalf("unexpected textQuery %v", payload["textQuery"])
		}
		if payload["languageCode"] != "fr" {
			t.Fatalf("unexpected languageCode %v", payload["languageCode"])
		}
		return jsonResponse(http.StatusOK, respBody), nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://maps.test/v1"), WithHTTPClient(&http.Client{Transport: rt}), WithLanguage("fr"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	place, err := client.Geocode(context.Background(), " 1 rue Thiers Bayonne ")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("X-Goog-Api-Key") != "test-key" {
		t.Fatalf("api key header missing")
	}
	if capturedHeaders.Get("X-Goog-FieldMask") != searchTextFieldMask {
		t.Fatalf("unexpected field mask %q", capturedHeaders.Get("X-Goog-FieldMask"))
	}
	if place.Latitude != 43.49 || place.Longitude != -1.47 {
		t.Fatalf("unexpected coordinates %+v", place)
	}
}

func TestGeocodeNoMatchIsNotFound(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{}`), nil
	})
	client, err := NewClient("k", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Geocode(context.Background(), "nowhere")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestGeocodeUpstreamFailureIsDependencyError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusForbidden, `{"error":"denied"}`), nil
	})
	client, err := NewClient("k", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Geocode(context.Background(), "somewhere")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected empty key to fail")
	}
}
