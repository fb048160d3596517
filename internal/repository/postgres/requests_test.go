package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/skillstream/edu-notify/internal/core/domain"
	"github.com/skillstream/edu-notify/internal/repository"
)

func requestColumns() []string {
	return []string{
		"video_request_id", "user_id", "topic", "sub_topic", "short_title",
		"request_description", "request_status", "response", "video_urls",
	}
}

func TestRequestRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRequestRepository(mock)

	rows := pgxmock.NewRows(requestColumns()).
		AddRow(int64(10), int64(42), "Algebra", "Quadratics", "Solving quadratics",
			"Please cover the discriminant.", "Completed",
			sql.NullString{String: "Recorded", Valid: true},
			sql.NullString{String: "https://videos.example/q1", Valid: true})

	mock.ExpectQuery(`SELECT .+ FROM edu\.video_requests WHERE video_request_id = \$1`).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	request, err := repo.GetByID(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	if request.VideoRequestID != 10 || request.UserID != 42 {
		t.Errorf("unexpected request: %+v", request)
	}
	if request.RequestStatus != domain.StatusCompleted {
		t.Errorf("expected Completed status, got %q", request.RequestStatus)
	}
	if request.Response != "Recorded" || request.VideoURLs != "https://videos.example/q1" {
		t.Errorf("nullable fields not mapped: %+v", request)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRequestRepository_GetByID_NullFieldsDefaultEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRequestRepository(mock)

	rows := pgxmock.NewRows(requestColumns()).
		AddRow(int64(10), int64(42), "Algebra", "Quadratics", "Solving quadratics",
			"Please cover the discriminant.", "Requested",
			sql.NullString{}, sql.NullString{})

	mock.ExpectQuery(`SELECT .+ FROM edu\.video_requests WHERE video_request_id = \$1`).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	request, err := repo.GetByID(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	if request.Response != "" || request.VideoURLs != "" {
		t.Errorf("expected empty strings for NULL columns, got %+v", request)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRequestRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRequestRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM edu\.video_requests WHERE video_request_id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(requestColumns()))

	_, err = repo.GetByID(context.Background(), 404)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_GetByName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRoleRepository(mock)

	rows := pgxmock.NewRows([]string{"role_id", "role_name"}).
		AddRow(int64(7), "Student")

	mock.ExpectQuery(`SELECT role_id, role_name FROM edu\.roles WHERE role_name = \$1`).
		WithArgs("Student").
		WillReturnRows(rows)

	role, err := repo.GetByName(context.Background(), "Student")
	if err != nil {
		t.Fatalf("GetByName returned error: %v", err)
	}

	if role.RoleID != 7 || role.RoleName != "Student" {
		t.Errorf("unexpected role: %+v", role)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_GetByName_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRoleRepository(mock)

	mock.ExpectQuery(`SELECT role_id, role_name FROM edu\.roles WHERE role_name = \$1`).
		WithArgs("Archivist").
		WillReturnRows(pgxmock.NewRows([]string{"role_id", "role_name"}))

	_, err = repo.GetByName(context.Background(), "Archivist")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
