package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oldrealm/aegisauth/internal/model"
)

// PostgresSource is a Source backed by a PostgreSQL accounts table, holding
// the SRP verifier/salt and optional PIN/matrix-card material.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource connects to PostgreSQL and returns a PostgresSource.
func NewPostgresSource(ctx context.Context, dsn string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresSource{pool: pool}, nil
}

// Close closes the underlying connection pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

// Pool returns the underlying pgx pool.
func (s *PostgresSource) Pool() *pgxpool.Pool {
	return s.pool
}

// Get implements Source.
func (s *PostgresSource) Get(ctx context.Context, username string) (*model.Credentials, bool, error) {
	username = strings.ToUpper(username)

	var (
		verifier, salt  []byte
		pin             *string
		cardDigits      []byte
		cardHeight      *int16
		cardWidth       *int16
		cardDigitCount  *int16
		cardChallengeCt *int16
	)

	err := s.pool.QueryRow(ctx,
		`SELECT verifier, salt, pin, matrix_card_digits, matrix_card_height,
		        matrix_card_width, matrix_card_digit_count, matrix_card_challenge_count
		   FROM accounts WHERE username = $1`, username,
	).Scan(&verifier, &salt, &pin, &cardDigits, &cardHeight, &cardWidth, &cardDigitCount, &cardChallengeCt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying account %q: %w", username, err)
	}

	creds := &model.Credentials{
		Username: username,
		Verifier: verifier,
		Salt:     salt,
		PIN:      pin,
	}
	if cardDigits != nil && cardHeight != nil && cardWidth != nil {
		creds.MatrixCard = &model.MatrixCardData{
			Height:         int(*cardHeight),
			Width:          int(*cardWidth),
			DigitCount:     int(derefInt16(cardDigitCount)),
			ChallengeCount: int(derefInt16(cardChallengeCt)),
			Digits:         unflattenDigits(cardDigits, int(*cardHeight), int(*cardWidth)),
		}
	}
	return creds, true, nil
}

func derefInt16(v *int16) int16 {
	if v == nil {
		return 0
	}
	return *v
}

func unflattenDigits(flat []byte, height, width int) [][]byte {
	rows := make([][]byte, height)
	for r := 0; r < height; r++ {
		start := r * width
		end := start + width
		if end > len(flat) {
			end = len(flat)
		}
		if start > len(flat) {
			start = len(flat)
		}
		rows[r] = append([]byte(nil), flat[start:end]...)
	}
	return rows
}

func flattenDigits(rows [][]byte) []byte {
	var out []byte
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

// CreateAccount inserts a new account row with a pre-computed verifier and
// salt; password hashing and verifier derivation happen outside this
// store, which never sees or stores a plaintext password. matrixCard is nil
// when the account has no matrix card configured.
func (s *PostgresSource) CreateAccount(ctx context.Context, username string, verifier, salt []byte, pin *string, matrixCard *model.MatrixCardData) error {
	username = strings.ToUpper(username)

	var cardDigits []byte
	var cardHeight, cardWidth, cardDigitCount, cardChallengeCount *int16
	if matrixCard != nil {
		cardDigits = flattenDigits(matrixCard.Digits)
		h, w := int16(matrixCard.Height), int16(matrixCard.Width)
		dc, cc := int16(matrixCard.DigitCount), int16(matrixCard.ChallengeCount)
		cardHeight, cardWidth, cardDigitCount, cardChallengeCount = &h, &w, &dc, &cc
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (username, verifier, salt, pin, matrix_card_digits,
		                        matrix_card_height, matrix_card_width,
		                        matrix_card_digit_count, matrix_card_challenge_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		username, verifier, salt, pin, cardDigits,
		cardHeight, cardWidth, cardDigitCount, cardChallengeCount,
	)
	if err != nil {
		return fmt.Errorf("creating account %q: %w", username, err)
	}
	return nil
}
