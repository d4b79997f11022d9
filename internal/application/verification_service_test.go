package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/campus-events/internal/domain/entity"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

const passToken = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"

func staff() *Principal {
	return &Principal{UserID: "staff-1", Username: "warden", IsStaff: true}
}

func newVerifyFixture(t *testing.T) (*memStore, *VerificationService) {
	t.Helper()
	store := newMemStore()
	store.addUser(entity.User{ID: "u1", Username: "asha", Email: "asha@example.com"})
	store.addUser(entity.User{ID: "staff-1", Username: "warden", IsStaff: true})
	ev := store.addEvent(entity.Event{Title: "Robotics Workshop", Category: entity.CategoryWorkshop, Capacity: 10})
	store.addRegistration("u1", ev.ID, passToken)

	svc := NewVerificationService(memRegs{store}, helpers.NewDiscardLogger())
	svc.Now = func() time.Time { return time.Date(2026, 11, 1, 9, 30, 0, 0, time.UTC) }
	return store, svc
}

func TestExtractPassToken(t *testing.T) {
	inputs := []string{
		passToken,
		"  " + passToken + "\n",
		"https://portal.test/qr/" + passToken,
		"3F2504E0-4F89-41D3-9A0C-0305E82C3301",
	}
	for _, in := range inputs {
		got, ok := ExtractPassToken(in)
		assert.True(t, ok, in)
		assert.Equal(t, passToken, got)
	}

	_, ok := ExtractPassToken("not-a-token")
	assert.False(t, ok)
	_, ok = ExtractPassToken("")
	assert.False(t, ok)
}

func TestVerify_RequiresStaff(t *testing.T) {
	store, svc := newVerifyFixture(t)

	_, err := svc.Verify(context.Background(), student("u1"), passToken)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Verify(context.Background(), nil, passToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.False(t, store.regs[0].Attended)
}

func TestVerify_InvalidFormat(t *testing.T) {
	_, svc := newVerifyFixture(t)
	_, err := svc.Verify(context.Background(), staff(), "hello world")
	assert.ErrorIs(t, err, ErrInvalidPassFormat)
}

func TestVerify_UnknownToken(t *testing.T) {
	_, svc := newVerifyFixture(t)
	_, err := svc.Verify(context.Background(), staff(), "11111111-2222-4333-8444-555555555555")
	assert.ErrorIs(t, err, ErrPassNotFound)
}

func TestVerify_OnceThenAlreadyVerified(t *testing.T) {
	store, svc := newVerifyFixture(t)

	res, err := svc.Verify(context.Background(), staff(), "scan: "+passToken)
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, res.Status)
	assert.Equal(t, "asha", res.Registration.Username)
	assert.True(t, res.Registration.Attended)

	first := *store.regs[0].VerifiedAt

	other := &Principal{UserID: "staff-2", IsStaff: true}
	svc.Now = func() time.Time { return first.Add(time.Hour) }
	res, err = svc.Verify(context.Background(), other, passToken)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyVerified, res.Status)
	assert.Equal(t, "warden", res.Registration.VerifiedByUsername)
	assert.Equal(t, first, *res.Registration.VerifiedAt)
	assert.Equal(t, "staff-1", *store.regs[0].VerifiedBy)
}

func TestVerify_ConcurrentScansSucceedOnce(t *testing.T) {
	_, svc := newVerifyFixture(t)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		already int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Verify(context.Background(), staff(), passToken)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			switch res.Status {
			case StatusVerified:
				success++
			case StatusAlreadyVerified:
				already++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, success)
	assert.Equal(t, 9, already)
}
