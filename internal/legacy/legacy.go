// Package legacy reads the old SQLite users/profiles database and imports it
// into the content store.
package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/store"

	_ "modernc.org/sqlite"
)

// User is a row of the legacy users table.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Report struct {
	Tables   []string
	Users    []User
	Profiles []models.Profile
}

type ImportResult struct {
	UsersImported    int
	UsersSkipped     int
	ProfilesImported int
	ProfilesSkipped  int
}

// Open opens a legacy database file read-only.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open legacy db: %w", err)
	}
	return db, nil
}

// Inspect lists the tables and reads the users and profiles rows. Missing
// tables yield empty slices.
func Inspect(ctx context.Context, db *sql.DB) (*Report, error) {
	tables, err := listTables(ctx, db)
	if err != nil {
		return nil, err
	}
	report := &Report{Tables: tables, Users: []User{}, Profiles: []models.Profile{}}

	if has(tables, "users") {
		rows, err := readRows(ctx, db, "users")
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			report.Users = append(report.Users, userFromRow(row))
		}
	}

	if has(tables, "profiles") {
		rows, err := readRows(ctx, db, "profiles")
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			report.Profiles = append(report.Profiles, profileFromRow(row))
		}
	}
	return report, nil
}

// Import copies legacy users and profiles into the content store. Users are
// matched by email and never duplicated; imported users get fresh ids.
// Profiles are only added for users that have none.
func Import(ctx context.Context, db *sql.DB, st *store.Content) (*ImportResult, error) {
	report, err := Inspect(ctx, db)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{}
	err = st.Update(ctx, func(doc *models.Document) error {
		*res = ImportResult{}
		idMap := make(map[int64]int64, len(report.Users))
		now := time.Now().UTC()

		for _, u := range report.Users {
			email := strings.TrimSpace(u.Email)
			if email == "" {
				res.UsersSkipped++
				continue
			}
			if existing := doc.UserByEmail(email); existing != nil {
				idMap[u.ID] = existing.ID
				res.UsersSkipped++
				continue
			}
			if !strings.HasPrefix(u.PasswordHash, "$2") {
				slog.WarnContext(ctx, "legacy user without bcrypt hash skipped", "email", email)
				res.UsersSkipped++
				continue
			}

			created := u.CreatedAt
			if created.IsZero() {
				created = now
			}
			user := models.User{
				ID:           doc.NextUserID(),
				Email:        email,
				PasswordHash: u.PasswordHash,
				CreatedAt:    created,
			}
			doc.Users = append(doc.Users, user)
			idMap[u.ID] = user.ID
			res.UsersImported++
		}

		for _, p := range report.Profiles {
			target, ok := idMap[p.UserID]
			if !ok || doc.ProfileFor(target) != nil {
				res.ProfilesSkipped++
				continue
			}
			p.ID = doc.NextProfileID()
			p.UserID = target
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			p.UpdatedAt = &now
			if p.Fields == nil {
				p.Fields = map[string]any{}
			}
			doc.Profiles = append(doc.Profiles, p)
			res.ProfilesImported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "legacy import finished",
		"users_imported", res.UsersImported,
		"users_skipped", res.UsersSkipped,
		"profiles_imported", res.ProfilesImported,
		"profiles_skipped", res.ProfilesSkipped,
	)
	return res, nil
}

func listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// readRows reads a whole table into column-name maps. The legacy schema
// is not fixed, so columns are discovered at runtime.
func readRows(ctx context.Context, db *sql.DB, table string) ([]map[string]any, error) {
	rows, err := db.QueryContext(ctx, `SELECT * FROM "`+table+`"`)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}

		row := make(map[string]any, len(cols))
		for i, c := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[strings.ToLower(c)] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func userFromRow(row map[string]any) User {
	u := User{
		ID:        asInt(row["id"]),
		Email:     asString(row["email"]),
		CreatedAt: asTime(row["created_at"]),
	}
	if h := asString(row["password_hash"]); h != "" {
		u.PasswordHash = h
	} else {
		u.PasswordHash = asString(row["password"])
	}
	return u
}

func profileFromRow(row map[string]any) models.Profile {
	p := models.Profile{
		ID:        asInt(row["id"]),
		UserID:    asInt(row["user_id"]),
		Nom:       asString(row["nom"]),
		Prenom:    asString(row["prenom"]),
		CreatedAt: asTime(row["created_at"]),
		Fields:    map[string]any{},
	}
	for k, v := range row {
		switch k {
		case "id", "user_id", "nom", "prenom", "created_at", "updated_at":
			continue
		}
		if v != nil {
			p.Fields[k] = v
		}
	}
	return p
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func asInt(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n
	default:
		return 0
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return ts.UTC()
			}
		}
	}
	return time.Time{}
}

func has(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
