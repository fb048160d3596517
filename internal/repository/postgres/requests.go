package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/skillstream/edu-notify/internal/core/domain"
	"github.com/skillstream/edu-notify/internal/core/port"
	"github.com/skillstream/edu-notify/internal/repository"
)

// RequestRepository implements read access to video requests in PostgreSQL.
type RequestRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRequestRepository constructs a PostgreSQL-backed request repository.
func NewRequestRepository(exec pgExecutor) *RequestRepository {
	return &RequestRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a video request by its id.
func (r *RequestRepository) GetByID(ctx context.Context, videoRequestID int64) (*domain.VideoRequest, error) {
	stmt, args, err := r.builder.Select(
		"video_request_id",
		"user_id",
		"topic",
		"sub_topic",
		"short_title",
		"request_description",
		"request_status",
		"response",
		"video_urls",
	).
		From("edu.video_requests").
		Where(squirrel.Eq{"video_request_id": videoRequestID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select video request sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var (
		request  domain.VideoRequest
		status   string
		response sql.NullString
		urls     sql.NullString
	)

	if err := row.Scan(
		&request.VideoRequestID,
		&request.UserID,
		&request.Topic,
		&request.SubTopic,
		&request.ShortTitle,
		&request.RequestDescription,
		&status,
		&response,
		&urls,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan video request: %w", err)
	}

	request.RequestStatus = domain.RequestStatus(status)
	if response.Valid {
		request.Response = response.String
	}
	if urls.Valid {
		request.VideoURLs = urls.String
	}

	return &request, nil
}

var _ port.RequestRepository = (*RequestRepository)(nil)
