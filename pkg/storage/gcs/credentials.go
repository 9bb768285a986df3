package gcs

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/angelmondragon/lockerbox-backend/pkg/config"
)

const scopeReadWrite = "https://www.googleapis.com/auth/devstorage.read_write"

// tokenSourceFor follows the same precedence as the Pub/Sub client: inline
// JSON, then a key file, then Application Default Credentials.
func tokenSourceFor(ctx context.Context, gcp config.GCPConfig) (oauth2.TokenSource, error) {
	var raw []byte
	switch {
	case strings.TrimSpace(gcp.CredentialsJSON) != "":
		raw = []byte(gcp.CredentialsJSON)
	case strings.TrimSpace(gcp.ApplicationCredentials) != "":
		b, err := os.ReadFile(gcp.ApplicationCredentials)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file: %w", err)
		}
		raw = b
	default:
		creds, err := google.FindDefaultCredentials(ctx, scopeReadWrite)
		if err != nil {
			return nil, fmt.Errorf("finding default credentials: %w", err)
		}
		return creds.TokenSource, nil
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, scopeReadWrite)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}
	return creds.TokenSource, nil
}

// staticTokenSource serves a fixed bearer token; emulators and tests use it.
func staticTokenSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}
