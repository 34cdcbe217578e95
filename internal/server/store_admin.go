package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type adminDoc struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type adminSessionDoc struct {
	ID        string `json:"id"`
	AdminID   string `json:"adminId"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// AdminStore keeps admin accounts and their login sessions.
type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

// EnsureAdmin creates the first admin account when none exists. It reports
// whether an account was created.
func (s *AdminStore) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hashing admin password: %w", err)
	}
	admin := adminDoc{
		ID:           newID(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
	}
	data, err := json.Marshal(admin)
	if err != nil {
		return false, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admins (id, email, data) VALUES (?, ?, jsonb(?))`,
		admin.ID, admin.Email, string(data),
	)
	if err != nil {
		return false, fmt.Errorf("inserting admin: %w", err)
	}
	return true, nil
}

// Authenticate checks credentials and returns the admin ID.
func (s *AdminStore) Authenticate(ctx context.Context, email, password string) (string, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM admins WHERE email = ?`, email,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errNoAdminSession
	}
	if err != nil {
		return "", err
	}
	var a adminDoc
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return "", errNoAdminSession
	}
	return a.ID, nil
}

func (s *AdminStore) CreateSession(ctx context.Context, adminID, email string) (string, error) {
	doc := adminSessionDoc{
		ID:        newID(),
		AdminID:   adminID,
		Email:     email,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (id, admin_id, data) VALUES (?, ?, jsonb(?))`,
		doc.ID, doc.AdminID, string(data),
	)
	if err != nil {
		return "", fmt.Errorf("inserting admin session: %w", err)
	}
	return doc.ID, nil
}

func (s *AdminStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *AdminStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM admin_sessions WHERE id = ?`, sessionID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	if err != nil {
		return adminSession{}, err
	}
	var doc adminSessionDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return adminSession{}, err
	}
	return adminSession{AdminID: doc.AdminID, Email: doc.Email}, nil
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
