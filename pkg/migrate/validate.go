package migrate

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks every .sql file in dir and reports all problems at once.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return ValidateFS(os.DirFS(dir))
}

// ValidateFS checks file names, unique versions and goose annotations: one
// Up before one Down, and StatementBegin/StatementEnd pairs that never nest.
func ValidateFS(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	seen := map[string]string{}
	var errs error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}
		if prev, ok := seen[m[1]]; ok {
			errs = multierr.Append(errs, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name))
			continue
		}
		seen[m[1]] = name

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read %q: %w", name, err))
			continue
		}
		errs = multierr.Append(errs, checkAnnotations(name, body))
	}
	return errs
}

func checkAnnotations(name string, body []byte) error {
	var (
		errs     error
		ups      int
		downs    int
		inStmt   bool
		lineNo   int
		upBefore = true
	)
	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "-- +goose ") {
			continue
		}
		switch strings.TrimSpace(strings.TrimPrefix(line, "-- +goose ")) {
		case "Up":
			ups++
			if downs > 0 {
				upBefore = false
			}
		case "Down":
			downs++
		case "StatementBegin":
			if inStmt {
				errs = multierr.Append(errs, fmt.Errorf("migration %q line %d: nested StatementBegin", name, lineNo))
			}
			inStmt = true
		case "StatementEnd":
			if !inStmt {
				errs = multierr.Append(errs, fmt.Errorf("migration %q line %d: StatementEnd without StatementBegin", name, lineNo))
			}
			inStmt = false
		}
	}
	if err := sc.Err(); err != nil {
		return multierr.Append(errs, fmt.Errorf("scan %q: %w", name, err))
	}

	if ups != 1 {
		errs = multierr.Append(errs, fmt.Errorf("migration %q must have one \"-- +goose Up\", found %d", name, ups))
	}
	switch {
	case downs == 0:
		errs = multierr.Append(errs, fmt.Errorf("migration %q missing \"-- +goose Down\"", name))
	case downs > 1:
		errs = multierr.Append(errs, fmt.Errorf("migration %q has %d \"-- +goose Down\" sections", name, downs))
	}
	if !upBefore {
		errs = multierr.Append(errs, fmt.Errorf("migration %q declares Down before Up", name))
	}
	if inStmt {
		errs = multierr.Append(errs, fmt.Errorf("migration %q has an unterminated StatementBegin", name))
	}
	return errs
}
