package repository

import (
	"context"
	"strings"

	"database/sql"
)

// CharacterQuery defines filters & pagination for browsing characters.
// MovieID restricts results to characters appearing in that movie;
// IsMain filters on the is_main_character flag; Search matches the
// character name (and Japanese name) case-insensitively.
type CharacterQuery struct {
	MovieID  string
	IsMain   *bool
	Search   string
	Page     int
	PageSize int
}

// CharacterRow is a character in list responses. The voice actor fields
// come from the movie_characters join and are only populated when the
// query is scoped to a movie.
type CharacterRow struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	NameJa       *string `json:"nameJa"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"imageUrl"`
	IsMain       bool    `json:"isMainCharacter"`
	VoiceActor   *string `json:"voiceActor,omitempty"`
	VoiceActorJa *string `json:"voiceActorJa,omitempty"`
	Importance   *int    `json:"importance,omitempty"`
}

// CharacterRepo manages read access to characters and their per-movie
// appearance records.
type CharacterRepo struct {
	db *sql.DB
}

// NewCharacterRepo constructs a CharacterRepo with the given DB handle.
func NewCharacterRepo(db *sql.DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

// List returns a page of characters plus the total row count for the
// filter. The same WHERE condition feeds both the COUNT(*) and the data
// query so the pagination metadata always matches the page contents.
func (r *CharacterRepo) List(ctx context.Context, q CharacterQuery) ([]CharacterRow, int64, error) {
	where := []string{}
	args := []any{}

	join := ""
	selectExtra := "NULL, NULL, NULL"
	if q.MovieID != "" {
		join = "JOIN movie_characters mc ON mc.character_id = c.id"
		selectExtra = "mc.voice_actor, mc.voice_actor_ja, mc.importance"
		where = append(where, "mc.movie_id = ?")
		args = append(args, q.MovieID)
	}
	if q.IsMain != nil {
		where = append(where, "c.is_main_character = ?")
		args = append(args, *q.IsMain)
	}
	if q.Search != "" {
		where = append(where, "(LOWER(c.name) LIKE ? OR LOWER(COALESCE(c.name_ja, '')) LIKE ?)")
		pattern := "%" + strings.ToLower(q.Search) + "%"
		args = append(args, pattern, pattern)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM characters c ` + join + ` WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	order := "ORDER BY c.name ASC"
	if q.MovieID != "" {
		// Within a movie the credits order matters more than the alphabet.
		order = "ORDER BY mc.importance ASC, c.name ASC"
	}

	dataSQL := `SELECT c.id, c.name, c.name_ja, c.description, c.image_url, c.is_main_character, ` +
		selectExtra + `
		FROM characters c ` + join + `
		WHERE ` + cond + `
		` + order + `
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]CharacterRow, 0, limit)
	for rows.Next() {
		var c CharacterRow
		if err := rows.Scan(
			&c.ID, &c.Name, &c.NameJa, &c.Description, &c.ImageURL, &c.IsMain,
			&c.VoiceActor, &c.VoiceActorJa, &c.Importance,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
