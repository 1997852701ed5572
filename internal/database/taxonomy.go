package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// The three taxonomy facets share the same mechanical shape: a keyed entity
// table plus a symmetric association table against videos. SetVideo* replaces
// the full association set for one video.

// CreateTag creates a new tag.
func (d *Database) CreateTag(ctx context.Context, name, color string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("tag name cannot be empty")
	}
	if color == "" {
		color = "#6366f1"
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag := &Tag{ID: uuid.NewString(), Name: name, Color: color}
	_, err := d.db.ExecContext(ctx,
		"INSERT INTO tags (id, name, color) VALUES (?, ?, ?)",
		tag.ID, tag.Name, tag.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// ListTags returns all tags ordered by name.
func (d *Database) ListTags(ctx context.Context) ([]Tag, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, "SELECT id, name, color FROM tags ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// UpdateTag renames or recolors a tag.
func (d *Database) UpdateTag(ctx context.Context, id, name, color string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"UPDATE tags SET name = ?, color = ? WHERE id = ?", name, color, id)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

// DeleteTag removes a tag; associations cascade.
func (d *Database) DeleteTag(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

// GetVideoTags returns the tags associated with a video.
func (d *Database) GetVideoTags(ctx context.Context, videoID string) ([]Tag, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.color FROM tags t
		INNER JOIN video_tags vt ON t.id = vt.tag_id
		WHERE vt.video_id = ?
		ORDER BY t.name`, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// SetVideoTags replaces a video's tag set.
func (d *Database) SetVideoTags(ctx context.Context, videoID string, tagIDs []string) error {
	return d.setAssociations(ctx, "video_tags", "tag_id", videoID, tagIDs)
}

// CreateParticipant creates a new participant.
func (d *Database) CreateParticipant(ctx context.Context, name string) (*Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("participant name cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p := &Participant{ID: uuid.NewString(), Name: name}
	_, err := d.db.ExecContext(ctx,
		"INSERT INTO participants (id, name) VALUES (?, ?)", p.ID, p.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}
	return p, nil
}

// ListParticipants returns all participants ordered by name.
func (d *Database) ListParticipants(ctx context.Context) ([]Participant, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, "SELECT id, name FROM participants ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []Participant{}
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// UpdateParticipant renames a participant.
func (d *Database) UpdateParticipant(ctx context.Context, id, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"UPDATE participants SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

// DeleteParticipant removes a participant; associations cascade.
func (d *Database) DeleteParticipant(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

// GetVideoParticipants returns the participants associated with a video.
func (d *Database) GetVideoParticipants(ctx context.Context, videoID string) ([]Participant, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT p.id, p.name FROM participants p
		INNER JOIN video_participants vp ON p.id = vp.participant_id
		WHERE vp.video_id = ?
		ORDER BY p.name`, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []Participant{}
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// SetVideoParticipants replaces a video's participant set.
func (d *Database) SetVideoParticipants(ctx context.Context, videoID string, participantIDs []string) error {
	return d.setAssociations(ctx, "video_participants", "participant_id", videoID, participantIDs)
}

// CreateLanguage creates a new language.
func (d *Database) CreateLanguage(ctx context.Context, code, name string) (*Language, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("language code cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	l := &Language{ID: uuid.NewString(), Code: code, Name: name}
	_, err := d.db.ExecContext(ctx,
		"INSERT INTO languages (id, code, name) VALUES (?, ?, ?)", l.ID, l.Code, l.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create language: %w", err)
	}
	return l, nil
}

// ListLanguages returns all languages ordered by name.
func (d *Database) ListLanguages(ctx context.Context) ([]Language, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, "SELECT id, code, name FROM languages ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	languages := []Language{}
	for rows.Next() {
		var l Language
		if err := rows.Scan(&l.ID, &l.Code, &l.Name); err != nil {
			return nil, err
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}

// UpdateLanguage updates a language's code and name.
func (d *Database) UpdateLanguage(ctx context.Context, id, code, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx,
		"UPDATE languages SET code = ?, name = ? WHERE id = ?", code, name, id)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

// DeleteLanguage removes a language; associations cascade.
func (d *Database) DeleteLanguage(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, "DELETE FROM languages WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

// GetVideoLanguages returns the languages associated with a video.
func (d *Database) GetVideoLanguages(ctx context.Context, videoID string) ([]Language, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT l.id, l.code, l.name FROM languages l
		INNER JOIN video_languages vl ON l.id = vl.language_id
		WHERE vl.video_id = ?
		ORDER BY l.name`, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	languages := []Language{}
	for rows.Next() {
		var l Language
		if err := rows.Scan(&l.ID, &l.Code, &l.Name); err != nil {
			return nil, err
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}

// SetVideoLanguages replaces a video's language set.
func (d *Database) SetVideoLanguages(ctx context.Context, videoID string, languageIDs []string) error {
	return d.setAssociations(ctx, "video_languages", "language_id", videoID, languageIDs)
}

// setAssociations replaces all rows for one video in an association table,
// as a single transaction. table and column are compile-time constants
// supplied by the facet-specific wrappers, never caller input.
func (d *Database) setAssociations(ctx context.Context, table, column, videoID string, ids []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE video_id = ?", table), videoID); err != nil {
		return rollback(tx, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (video_id, %s) VALUES (?, ?)", table, column)
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, insert, videoID, id); err != nil {
			return rollback(tx, err)
		}
	}

	return tx.Commit()
}

func requireAffected(rows int64, err error) error {
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
