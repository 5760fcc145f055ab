package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/KpG782/qr-registration/internal/clock"
	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type participantFixture struct {
	store    *memStore
	clock    *clock.Manual
	svc      *ParticipantService
	category domain.Category
}

func newParticipantFixture(t *testing.T) participantFixture {
	t.Helper()
	store := newMemStore()
	clk := clock.NewManual(time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	admin := NewAdminService(store, clk)

	event, err := admin.CreateEvent(context.Background(), CreateEventInput{Name: "Hackathon"})
	require.NoError(t, err)
	category, err := admin.CreateCategory(context.Background(), CreateCategoryInput{EventID: event.ID, Name: "Finals"})
	require.NoError(t, err)

	return participantFixture{
		store:    store,
		clock:    clk,
		svc:      NewParticipantService(store, clk),
		category: category,
	}
}

func TestParticipantService_CreateValidates(t *testing.T) {
	f := newParticipantFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateParticipantInput
		want error
	}{
		{name: "missing category", in: CreateParticipantInput{Email: "a@x.io", FullName: "A"}, want: domain.ErrInvalidID},
		{name: "missing email", in: CreateParticipantInput{CategoryID: f.category.ID, FullName: "A"}, want: domain.ErrEmailRequired},
		{name: "invalid email", in: CreateParticipantInput{CategoryID: f.category.ID, Email: "nope", FullName: "A"}, want: domain.ErrInvalidEmail},
		{name: "blank name", in: CreateParticipantInput{CategoryID: f.category.ID, Email: "a@x.io", FullName: "  "}, want: domain.ErrFullNameRequired},
		{name: "unknown category", in: CreateParticipantInput{CategoryID: "missing", Email: "a@x.io", FullName: "A"}, want: domain.ErrCategoryNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParticipantService_CreateStartsPending(t *testing.T) {
	f := newParticipantFixture(t)

	p, err := f.svc.Create(context.Background(), CreateParticipantInput{
		CategoryID: f.category.ID,
		Email:      "Ann@X.io",
		FullName:   " Ann ",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttendancePending, p.Status)
	assert.Nil(t, p.CheckedInAt)
	assert.Nil(t, p.WinnerRank)
	assert.Equal(t, "Ann@X.io", p.Email, "registration keeps the email as typed")
	assert.Equal(t, "Ann", p.FullName)
	assert.Empty(t, p.SchoolInstitution)
}

func TestParticipantService_ConcurrentDuplicateCreate(t *testing.T) {
	f := newParticipantFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(ctx, CreateParticipantInput{
				CategoryID: f.category.ID,
				Email:      "same@x.io",
				FullName:   "Same",
			})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case domain.IsConflict(err):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
}

func TestParticipantService_BulkCreatePartialFailure(t *testing.T) {
	f := newParticipantFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateParticipantInput{CategoryID: f.category.ID, Email: "dup@x.io", FullName: "Dup"})
	require.NoError(t, err)

	res, err := f.svc.BulkCreate(ctx, BulkCreateInput{
		CategoryID: f.category.ID,
		Records: []BulkRecord{
			{Email: "a@x.io", FullName: "A"},
			{Email: "dup@x.io", FullName: "Dup again"},
			{Email: "b@x.io", FullName: "B", SchoolInstitution: "MIT"},
			{Email: "a@x.io", FullName: "A twice"},
			{Email: "bad", FullName: "Bad"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 3, res.Failed)
	assert.Equal(t, []string{
		"Duplicate email: dup@x.io",
		"Duplicate email: a@x.io",
		"Failed to add bad: invalid email format",
	}, res.Errors)

	stored, err := f.svc.List(ctx, f.category.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestParticipantService_BulkCreateDuplicateCounts(t *testing.T) {
	f := newParticipantFixture(t)
	ctx := context.Background()

	const n, k = 10, 3
	for i := 0; i < k; i++ {
		_, err := f.svc.Create(ctx, CreateParticipantInput{
			CategoryID: f.category.ID,
			Email:      fmt.Sprintf("p%d@x.io", i),
			FullName:   "Existing",
		})
		require.NoError(t, err)
	}

	records := make([]BulkRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, BulkRecord{Email: fmt.Sprintf("p%d@x.io", i), FullName: "New"})
	}
	res, err := f.svc.BulkCreate(ctx, BulkCreateInput{CategoryID: f.category.ID, Records: records})
	require.NoError(t, err)
	assert.Equal(t, n-k, res.Success)
	assert.Equal(t, k, res.Failed)
	for _, msg := range res.Errors {
		assert.Contains(t, msg, "Duplicate email")
	}
}

func TestParticipantService_BulkCreateHidesStorageErrors(t *testing.T) {
	f := newParticipantFixture(t)
	f.store.failCreateParticipant = errStorage

	res, err := f.svc.BulkCreate(context.Background(), BulkCreateInput{
		CategoryID: f.category.ID,
		Records:    []BulkRecord{{Email: "a@x.io", FullName: "A"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Success)
	assert.Equal(t, []string{"Failed to add a@x.io: storage error"}, res.Errors)
}

func TestParticipantService_UpdateStatus(t *testing.T) {
	f := newParticipantFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, CreateParticipantInput{CategoryID: f.category.ID, Email: "a@x.io", FullName: "A"})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	checkedIn := domain.AttendanceCheckedIn
	updated, err := f.svc.Update(ctx, p.ID, UpdateParticipantInput{Status: &checkedIn})
	require.NoError(t, err)
	assert.True(t, updated.CheckedIn())
	require.NotNil(t, updated.CheckedInAt)
	assert.Equal(t, f.clock.Now(), *updated.CheckedInAt)

	pending := domain.AttendancePending
	_, err = f.svc.Update(ctx, p.ID, UpdateParticipantInput{Status: &pending})
	assert.ErrorIs(t, err, domain.ErrAttendanceReversal)

	bogus := domain.AttendanceStatus("absent")
	_, err = f.svc.Update(ctx, p.ID, UpdateParticipantInput{Status: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidAttendanceStatus)
}

func TestParticipantService_UpdatePartialFields(t *testing.T) {
	f := newParticipantFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, CreateParticipantInput{
		CategoryID:        f.category.ID,
		Email:             "a@x.io",
		FullName:          "A",
		SchoolInstitution: "MIT",
	})
	require.NoError(t, err)

	name := "Ann"
	updated, err := f.svc.Update(ctx, p.ID, UpdateParticipantInput{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.FullName)
	assert.Equal(t, "a@x.io", updated.Email)
	assert.Equal(t, "MIT", updated.SchoolInstitution)
	assert.Equal(t, domain.AttendancePending, updated.Status)

	_, err = f.svc.Update(ctx, "missing", UpdateParticipantInput{FullName: &name})
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)

	bad := "not-an-email"
	_, err = f.svc.Update(ctx, p.ID, UpdateParticipantInput{Email: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestParticipantService_WinnerRank(t *testing.T) {
	f := newParticipantFixture(t)
	ctx := context.Background()

	ann, err := f.svc.Create(ctx, CreateParticipantInput{CategoryID: f.category.ID, Email: "a@x.io", FullName: "A"})
	require.NoError(t, err)
	bo, err := f.svc.Create(ctx, CreateParticipantInput{CategoryID: f.category.ID, Email: "b@x.io", FullName: "B"})
	require.NoError(t, err)

	four := 4
	_, err = f.svc.Update(ctx, ann.ID, UpdateParticipantInput{WinnerRank: &four})
	assert.ErrorIs(t, err, domain.ErrInvalidWinnerRank)

	first := 1
	updated, err := f.svc.Update(ctx, ann.ID, UpdateParticipantInput{WinnerRank: &first})
	require.NoError(t, err)
	assert.Equal(t, 1, *updated.WinnerRank)

	_, err = f.svc.Update(ctx, ann.ID, UpdateParticipantInput{WinnerRank: &first})
	assert.NoError(t, err, "re-assigning the same rank to its holder is allowed")

	_, err = f.svc.Update(ctx, bo.ID, UpdateParticipantInput{WinnerRank: &first})
	assert.ErrorIs(t, err, domain.ErrWinnerRankTaken)

	cleared, err := f.svc.Update(ctx, ann.ID, UpdateParticipantInput{ClearWinnerRank: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.WinnerRank)

	_, err = f.svc.Update(ctx, bo.ID, UpdateParticipantInput{WinnerRank: &first})
	assert.NoError(t, err)
}

func TestParticipantService_CheckInRestamps(t *testing.T) {
	f := newParticipantFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, CreateParticipantInput{CategoryID: f.category.ID, Email: "a@x.io", FullName: "A"})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	first, err := f.svc.CheckIn(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, first.CheckedIn())

	f.clock.Advance(time.Hour)
	second, err := f.svc.CheckIn(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, second.CheckedInAt.After(*first.CheckedInAt))

	_, err = f.svc.CheckIn(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestParticipantService_DeleteAndFind(t *testing.T) {
	f := newParticipantFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, CreateParticipantInput{CategoryID: f.category.ID, Email: "a@x.io", FullName: "A"})
	require.NoError(t, err)

	found, err := f.svc.FindByEmail(ctx, f.category.ID, "a@x.io")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, p.ID, found.ID)

	none, err := f.svc.FindByEmail(ctx, f.category.ID, "A@x.io")
	require.NoError(t, err)
	assert.Nil(t, none)

	existed, err := f.svc.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = f.svc.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestParticipantService_ListAll(t *testing.T) {
	store := newMemStore()
	svc := NewParticipantService(store, clock.NewManual(time.Now()))

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
}
