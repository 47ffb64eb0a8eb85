package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes we branch on.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresReviewStore persists reviews in Postgres. The
// (user_id, media_id) unique index makes Create race-free, and the
// owner-scoped UPDATE closes the check-then-mutate gap.
type PostgresReviewStore struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewStore(pool *pgxpool.Pool) *PostgresReviewStore {
	return &PostgresReviewStore{pool: pool}
}

const reviewColumns = `r.id::text, r.user_id::text, u.email, r.media_id, r.media_kind,
	r.media_title, COALESCE(r.media_poster, ''), COALESCE(r.media_release_date, ''),
	r.rating, r.comment, r.created_at, r.updated_at`

func (s *PostgresReviewStore) Create(ctx context.Context, p NewReview) (Review, error) {
	if err := validateNewReview(p); err != nil {
		return Review{}, err
	}

	const q = `
WITH inserted AS (
	INSERT INTO reviews (user_id, media_id, media_kind, media_title, media_poster, media_release_date, rating, comment)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)
	RETURNING *
)
SELECT ` + reviewColumns + `
FROM inserted r
JOIN users u ON u.id = r.user_id;`

	row := s.pool.QueryRow(ctx, q,
		p.UserID, p.MediaID, p.MediaKind, p.MediaTitle, p.MediaPoster, p.MediaReleaseDate, p.Rating, p.Comment)
	out, err := scanReview(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Review{}, ErrDuplicateReview
		}
		return Review{}, err
	}
	out.Replies = []Reply{}
	return out, nil
}

func (s *PostgresReviewStore) ListForMedia(ctx context.Context, mediaID string) ([]Review, error) {
	const q = `
SELECT ` + reviewColumns + `
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.media_id = $1
ORDER BY r.created_at DESC, r.id DESC;`
	return s.queryReviews(ctx, q, mediaID)
}

func (s *PostgresReviewStore) ListByUser(ctx context.Context, userID string) ([]Review, error) {
	const q = `
SELECT ` + reviewColumns + `
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.user_id = $1
ORDER BY r.created_at DESC, r.id DESC;`
	return s.queryReviews(ctx, q, userID)
}

func (s *PostgresReviewStore) GetForUserAndMedia(ctx context.Context, userID, mediaID string) (Review, bool, error) {
	const q = `
SELECT ` + reviewColumns + `
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.user_id = $1 AND r.media_id = $2;`
	row := s.pool.QueryRow(ctx, q, userID, mediaID)
	out, err := scanReview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, false, nil
		}
		return Review{}, false, err
	}
	if err := s.attachReplies(ctx, []*Review{&out}); err != nil {
		return Review{}, false, err
	}
	return out, true, nil
}

func (s *PostgresReviewStore) Update(ctx context.Context, userID, reviewID string, rating int, comment string) (Review, error) {
	if err := validateRating(rating); err != nil {
		return Review{}, err
	}
	if err := validateComment(comment); err != nil {
		return Review{}, err
	}

	// Ownership check and mutation in one statement: a review that exists
	// but belongs to someone else matches zero rows, same as one that does
	// not exist at all.
	const q = `
WITH updated AS (
	UPDATE reviews SET rating = $1, comment = $2, updated_at = now()
	WHERE id = $3 AND user_id = $4
	RETURNING *
)
SELECT ` + reviewColumns + `
FROM updated r
JOIN users u ON u.id = r.user_id;`
	row := s.pool.QueryRow(ctx, q, rating, comment, reviewID, userID)
	out, err := scanReview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, ErrNotFoundOrForbidden
		}
		return Review{}, err
	}
	if err := s.attachReplies(ctx, []*Review{&out}); err != nil {
		return Review{}, err
	}
	return out, nil
}

func (s *PostgresReviewStore) AddReply(ctx context.Context, userID, reviewID, comment string) (Review, error) {
	if err := validateComment(comment); err != nil {
		return Review{}, err
	}

	// The FK to reviews resolves the target atomically with the insert;
	// the parent review row itself is untouched.
	const q = `INSERT INTO replies (review_id, user_id, comment) VALUES ($1, $2, $3);`
	if _, err := s.pool.Exec(ctx, q, reviewID, userID, comment); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return Review{}, ErrNotFound
		}
		return Review{}, err
	}
	return s.getByID(ctx, reviewID)
}

func (s *PostgresReviewStore) getByID(ctx context.Context, reviewID string) (Review, error) {
	const q = `
SELECT ` + reviewColumns + `
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.id = $1;`
	row := s.pool.QueryRow(ctx, q, reviewID)
	out, err := scanReview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, ErrNotFound
		}
		return Review{}, err
	}
	if err := s.attachReplies(ctx, []*Review{&out}); err != nil {
		return Review{}, err
	}
	return out, nil
}

func (s *PostgresReviewStore) queryReviews(ctx context.Context, q string, args ...any) ([]Review, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*Review, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := s.attachReplies(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

// attachReplies loads the replies for a batch of reviews in one query,
// oldest first, with reply authors resolved.
func (s *PostgresReviewStore) attachReplies(ctx context.Context, reviews []*Review) error {
	for _, r := range reviews {
		r.Replies = []Reply{}
	}
	if len(reviews) == 0 {
		return nil
	}

	ids := make([]string, len(reviews))
	byID := make(map[string]*Review, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
		byID[r.ID] = r
	}

	const q = `
SELECT p.review_id::text, p.id::text, p.user_id::text, u.email, p.comment, p.created_at
FROM replies p
JOIN users u ON u.id = p.user_id
WHERE p.review_id = ANY($1)
ORDER BY p.created_at ASC, p.id ASC;`
	rows, err := s.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var reviewID string
		var rp Reply
		if err := rows.Scan(&reviewID, &rp.ID, &rp.UserID, &rp.UserEmail, &rp.Comment, &rp.CreatedAt); err != nil {
			return err
		}
		if parent, ok := byID[reviewID]; ok {
			parent.Replies = append(parent.Replies, rp)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.UserID, &r.UserEmail, &r.MediaID, &r.MediaKind,
		&r.MediaTitle, &r.MediaPoster, &r.MediaReleaseDate,
		&r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}
