package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Get returns the value stored under key. ok is false when the key is absent.
func (m *Manager) Get(key string) ([]byte, bool, error) {
	return getKV(m.db, key)
}

// Set stores value under key, replacing any previous value.
func (m *Manager) Set(key string, value []byte) error {
	return setKV(m.db, key, value)
}

// Delete removes key. Deleting a missing key is not an error.
func (m *Manager) Delete(key string) error {
	_, err := m.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Update performs a read-modify-write of key in one transaction.
func (m *Manager) Update(key string, fn func(old []byte, ok bool) ([]byte, error)) error {
	return m.withTx(func(tx *sql.Tx) error {
		old, ok, err := getKV(tx, key)
		if err != nil {
			return err
		}
		value, err := fn(old, ok)
		if err != nil {
			return err
		}
		return setKV(tx, key, value)
	})
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

func getKV(q querier, key string) ([]byte, bool, error) {
	var value []byte
	err := q.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func setKV(q querier, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := q.Exec(`
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().Unix())
	return err
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func (m *Manager) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
