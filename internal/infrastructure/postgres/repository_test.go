package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/campus-events/internal/domain/entity"
	"github.com/oksasatya/campus-events/internal/domain/repository"
)

const passToken = "123e4567-e89b-12d3-a456-426614174000"

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func q(sql string) string { return regexp.QuoteMeta(sql) }

func expectLock(mock pgxmock.PgxPoolIface, eventID int64, capacity, taken int) {
	mock.ExpectQuery(q("SELECT capacity FROM events WHERE id = $1 FOR UPDATE")).
		WithArgs(eventID).
		WillReturnRows(pgxmock.NewRows([]string{"capacity"}).AddRow(capacity))
	mock.ExpectQuery(q("SELECT COUNT(*) FROM registrations WHERE event_id = $1")).
		WithArgs(eventID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(taken))
}

func expectDuplicateCheck(mock pgxmock.PgxPoolIface, userID string, eventID int64, dup bool) {
	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM registrations WHERE user_id = $1 AND event_id = $2)")).
		WithArgs(userID, eventID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(dup))
}

func TestRegistrationCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)
	now := time.Now()

	mock.ExpectBegin()
	expectLock(mock, 7, 1, 0)
	expectDuplicateCheck(mock, "user-a", 7, false)
	mock.ExpectQuery(q("INSERT INTO registrations (user_id, event_id, registration_id)")).
		WithArgs("user-a", int64(7), passToken).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), now))
	mock.ExpectCommit()

	reg := &entity.Registration{UserID: "user-a", EventID: 7, Token: passToken}
	require.NoError(t, repo.Create(context.Background(), reg))
	assert.Equal(t, int64(11), reg.ID)
	assert.Equal(t, now, reg.CreatedAt)
}

func TestRegistrationCreateEventFull(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)

	mock.ExpectBegin()
	expectLock(mock, 7, 1, 1)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &entity.Registration{UserID: "user-b", EventID: 7, Token: passToken})
	assert.ErrorIs(t, err, repository.ErrEventFull)
}

func TestRegistrationCreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)

	mock.ExpectBegin()
	expectLock(mock, 7, 10, 3)
	expectDuplicateCheck(mock, "user-a", 7, true)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &entity.Registration{UserID: "user-a", EventID: 7, Token: passToken})
	assert.ErrorIs(t, err, repository.ErrAlreadyRegistered)
}

func TestRegistrationCreateUniqueViolation(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)

	mock.ExpectBegin()
	expectLock(mock, 7, 10, 3)
	expectDuplicateCheck(mock, "user-a", 7, false)
	mock.ExpectQuery(q("INSERT INTO registrations")).
		WithArgs("user-a", int64(7), passToken).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "registrations_user_event_key"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &entity.Registration{UserID: "user-a", EventID: 7, Token: passToken})
	assert.ErrorIs(t, err, repository.ErrAlreadyRegistered)
}

func TestRegistrationCreateUnknownEvent(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT capacity FROM events WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows([]string{"capacity"}))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &entity.Registration{UserID: "user-a", EventID: 404, Token: passToken})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func profileArgs(p *entity.StudentProfile) []any {
	return []any{p.UserID, p.CollegeEmail, p.RegistrationNumber, p.Branch, p.Department, p.YearOfStudy, p.Interests}
}

func TestRegistrationCreateWithProfile(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)
	p := &entity.StudentProfile{
		UserID: "user-a", CollegeEmail: "a@mvgrce.edu.in", RegistrationNumber: "21331A0501",
		Branch: "CSE", Department: "Engineering", YearOfStudy: 3,
	}

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO student_profiles")).
		WithArgs(profileArgs(p)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	expectLock(mock, 7, 5, 0)
	expectDuplicateCheck(mock, "user-a", 7, false)
	mock.ExpectQuery(q("INSERT INTO registrations")).
		WithArgs("user-a", int64(7), passToken).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
	mock.ExpectCommit()

	reg := &entity.Registration{UserID: "user-a", EventID: 7, Token: passToken}
	require.NoError(t, repo.CreateWithProfile(context.Background(), p, reg))
	assert.Equal(t, int64(1), reg.ID)
}

func TestRegistrationCreateWithProfileDuplicateNumber(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)
	p := &entity.StudentProfile{UserID: "user-b", RegistrationNumber: "21331A0501"}

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO student_profiles")).
		WithArgs(profileArgs(p)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "student_profiles_registration_number_key"})
	mock.ExpectRollback()

	err := repo.CreateWithProfile(context.Background(), p, &entity.Registration{UserID: "user-b", EventID: 7, Token: passToken})
	assert.ErrorIs(t, err, repository.ErrDuplicateRegistrationNumber)
}

func TestRegistrationCreateWithProfileFullRollsBackProfile(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)
	p := &entity.StudentProfile{UserID: "user-b", RegistrationNumber: "X1"}

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO student_profiles")).
		WithArgs(profileArgs(p)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	expectLock(mock, 7, 1, 1)
	mock.ExpectRollback()

	err := repo.CreateWithProfile(context.Background(), p, &entity.Registration{UserID: "user-b", EventID: 7, Token: passToken})
	assert.ErrorIs(t, err, repository.ErrEventFull)
}

func TestMarkAttended(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)
	at := time.Now().UTC()

	mock.ExpectExec(q("UPDATE registrations")).
		WithArgs(passToken, "staff-1", at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(q("WHERE registration_id = $1 AND attended = false")).
		WithArgs(passToken, "staff-2", at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.MarkAttended(context.Background(), passToken, "staff-1", at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkAttended(context.Background(), passToken, "staff-2", at)
	require.NoError(t, err)
	assert.False(t, ok)
}

var detailColumns = []string{
	"id", "user_id", "event_id", "registration_id", "attended", "verified_at", "verified_by", "created_at",
	"username", "email",
	"title", "description", "date", "venue", "category", "capacity", "image_url", "event_created_at",
	"registered", "has_profile",
	"college_email", "registration_number", "branch", "department", "year_of_study", "interests",
	"verified_by_username",
}

func TestGetByToken(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)
	now := time.Now()
	staff := "staff-1"

	mock.ExpectQuery(q("WHERE r.registration_id = $1")).
		WithArgs(passToken).
		WillReturnRows(pgxmock.NewRows(detailColumns).AddRow(
			int64(3), "user-a", int64(7), passToken, true, &now, &staff, now,
			"alice", "alice@example.com",
			"Go Workshop", "", now, "Hall A", "workshop", 40, "", now,
			12, true,
			"a@mvgrce.edu.in", "21331A0501", "CSE", "Engineering", 3, "",
			"bob",
		))

	d, err := repo.GetByToken(context.Background(), passToken)
	require.NoError(t, err)
	assert.Equal(t, passToken, d.Token)
	assert.True(t, d.Attended)
	assert.Equal(t, "bob", d.VerifiedByUsername)
	assert.Equal(t, entity.CategoryWorkshop, d.Event.Category)
	assert.Equal(t, int64(7), d.Event.ID)
	require.NotNil(t, d.Profile)
	assert.Equal(t, "user-a", d.Profile.UserID)
	assert.Equal(t, 3, d.Profile.YearOfStudy)
}

func TestGetByTokenForUserNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)

	mock.ExpectQuery(q("WHERE r.registration_id = $1 AND r.user_id = $2")).
		WithArgs(passToken, "user-b").
		WillReturnRows(pgxmock.NewRows(detailColumns))

	_, err := repo.GetByTokenForUser(context.Background(), passToken, "user-b")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListAllWithoutProfile(t *testing.T) {
	mock := newMock(t)
	repo := NewRegistrationRepository(mock)
	now := time.Now()

	mock.ExpectQuery(q("ORDER BY r.id")).
		WithArgs().
		WillReturnRows(pgxmock.NewRows(detailColumns).AddRow(
			int64(1), "user-a", int64(7), passToken, false, nil, nil, now,
			"alice", "",
			"Talk", "", now, "Hall", "seminar", 10, "", now,
			1, false,
			"", "", "", "", 0, "",
			"",
		))

	list, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Profile)
	assert.Nil(t, list[0].VerifiedAt)
	assert.Nil(t, list[0].VerifiedBy)
}

func TestEventList(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRepository(mock)
	now := time.Now()
	cols := []string{"id", "title", "description", "date", "venue", "category", "capacity", "image_url", "created_at", "registered"}

	mock.ExpectQuery(q("ILIKE")).
		WithArgs(`100\%`, "sports").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(1), "100% Run", "", now, "Ground", "sports", 50, "", now, 50))

	events, err := repo.List(context.Background(), entity.EventFilter{Title: " 100% ", Category: entity.CategorySports})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsFull())
	assert.Equal(t, entity.CategorySports, events[0].Category)
}

func TestEventGetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRepository(mock)

	mock.ExpectQuery(q("WHERE e.id = $1")).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventCategoryCounts(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRepository(mock)

	mock.ExpectQuery(q("GROUP BY category")).
		WithArgs().
		WillReturnRows(pgxmock.NewRows([]string{"category", "count"}).
			AddRow("seminar", 2).
			AddRow("sports", 1))

	counts, err := repo.CategoryCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[entity.Category]int{entity.CategorySeminar: 2, entity.CategorySports: 1}, counts)
}

func TestUserCreateUsernameTaken(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs("alice", "a@example.com", "hash", false).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.Create(context.Background(), &entity.User{Username: "alice", Email: "a@example.com", Password: "hash"})
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)
}

func TestProfileGetByUserIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)

	mock.ExpectQuery(q("FROM student_profiles")).
		WithArgs("user-a").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}))

	_, err := repo.GetByUserID(context.Background(), "user-a")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUniqueConstraint(t *testing.T) {
	name, ok := uniqueConstraint(&pgconn.PgError{Code: "23505", ConstraintName: "x_key"})
	assert.True(t, ok)
	assert.Equal(t, "x_key", name)

	_, ok = uniqueConstraint(errors.New("boom"))
	assert.False(t, ok)
}
