package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sevasetu/internal/models"
)

func TestVerifyAndBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.user(t, "admin", models.RoleAdmin)
	ngo := f.user(t, "ngo", models.RoleNGO)
	vol := f.user(t, "vol", models.RoleVolunteer)

	_, err := f.svc.VerifyNGO(ctx, admin, vol.UserID)
	requireKind(t, err, KindNotFound)
	_, err = f.svc.VerifyNGO(ctx, admin, 9999)
	requireKind(t, err, KindNotFound)

	verifiedNGO, err := f.svc.VerifyNGO(ctx, admin, ngo.UserID)
	require.NoError(t, err)
	assert.True(t, verifiedNGO.Verified)

	ngos, err := f.svc.ListNGOs(ctx, admin)
	require.NoError(t, err)
	require.Len(t, ngos, 1)
	assert.True(t, ngos[0].Verified)
	assert.Equal(t, "ngo@example.org", ngos[0].Email)

	_, err = f.svc.JoinNGO(ctx, vol, ngo.UserID)
	require.NoError(t, err)

	_, err = f.svc.BlockUser(ctx, admin, 9999)
	requireKind(t, err, KindNotFound)
	blocked, err := f.svc.BlockUser(ctx, admin, ngo.UserID)
	require.NoError(t, err)
	assert.False(t, blocked.Verified)

	other := f.user(t, "vol2", models.RoleVolunteer)
	_, err = f.svc.JoinNGO(ctx, other, ngo.UserID)
	requireKind(t, err, KindNotFound)
}

func TestDeleteNGOCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.user(t, "admin", models.RoleAdmin)
	ngo := f.user(t, "ngo", models.RoleNGO, verified)
	keep := f.user(t, "keep", models.RoleNGO, verified)
	vol := f.user(t, "vol", models.RoleVolunteer, withPoints(40))

	_, err := f.svc.JoinNGO(ctx, vol, ngo.UserID)
	require.NoError(t, err)

	gone := f.task(t, ngo, "gone")
	kept := f.task(t, keep, "kept")
	approved := f.submission(t, vol, gone)
	f.submission(t, vol, gone)
	onKept := f.submission(t, vol, kept)

	_, err = f.svc.ReviewSubmission(ctx, ngo, approved.ID, "Approved")
	require.NoError(t, err)
	require.Equal(t, int64(1), f.count(t, &models.Certificate{}))

	res, err := f.svc.DeleteUser(ctx, admin, ngo.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TasksDeleted)
	assert.Equal(t, int64(2), res.SubmissionsDeleted)

	assert.Zero(t, f.count(t, &models.User{}, "id = ?", ngo.UserID))
	assert.Zero(t, f.count(t, &models.Task{}, "ngo_id = ?", ngo.UserID))
	assert.Zero(t, f.count(t, &models.Submission{}, "task_id = ?", gone.ID))
	assert.Equal(t, int64(1), f.count(t, &models.Submission{}, "id = ?", onKept.ID))
	assert.Equal(t, int64(1), f.count(t, &models.Certificate{}), "certificates are retained")

	me, err := f.svc.Me(ctx, vol)
	require.NoError(t, err)
	assert.Nil(t, me.NGOID)
	assert.Equal(t, 50, me.Points, "earned points survive the NGO")

	tasks, err := f.svc.ListTasks(ctx, vol)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, kept.ID, tasks[0].ID)
}

func TestDeleteVolunteerRemovesOwnSubmissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.user(t, "admin", models.RoleAdmin)
	ngo := f.user(t, "ngo", models.RoleNGO, verified)
	vol := f.user(t, "vol", models.RoleVolunteer)
	sub := f.submission(t, vol, f.task(t, ngo, "t"))
	_, err := f.svc.ReviewSubmission(ctx, ngo, sub.ID, "Rejected")
	require.NoError(t, err)

	res, err := f.svc.DeleteUser(ctx, admin, vol.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.SubmissionsDeleted)
	assert.Zero(t, res.TasksDeleted)
	assert.Zero(t, f.count(t, &models.Submission{}))
	assert.Equal(t, int64(1), f.count(t, &models.Task{}))
}

func TestDeleteUserGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.user(t, "admin", models.RoleAdmin)

	_, err := f.svc.DeleteUser(ctx, admin, admin.UserID)
	requireKind(t, err, KindForbidden)
	_, err = f.svc.DeleteUser(ctx, admin, 9999)
	requireKind(t, err, KindNotFound)
	assert.Equal(t, int64(1), f.count(t, &models.User{}))
}

func TestExportVolunteers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.user(t, "admin", models.RoleAdmin)
	f.user(t, "ngo", models.RoleNGO)
	a := f.user(t, "asha", models.RoleVolunteer, withPoints(30))
	f.user(t, "ravi", models.RoleVolunteer, func(u *models.User) { u.City = "Nagpur, East" })

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportVolunteers(ctx, admin, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, VolunteersCSVHeader, rows[0])
	assert.Equal(t, []string{"3", "asha", "asha@example.org", "Pune", "MH", "30"}, rows[1])
	assert.Equal(t, "Nagpur, East", rows[2][3])
	assert.Equal(t, uint(3), a.UserID)

	list, err := f.svc.ListVolunteers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	err = f.svc.ExportVolunteers(ctx, a, &buf)
	requireKind(t, err, KindForbidden)
}

func TestDeletedAccountTokenCannotWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.user(t, "admin", models.RoleAdmin)
	ngo := f.user(t, "ngo", models.RoleNGO, verified)
	other := f.user(t, "other", models.RoleNGO, verified)
	vol := f.user(t, "vol", models.RoleVolunteer)
	task := f.task(t, other, "open")

	_, err := f.svc.DeleteUser(ctx, admin, ngo.UserID)
	require.NoError(t, err)
	_, err = f.svc.DeleteUser(ctx, admin, vol.UserID)
	require.NoError(t, err)

	_, err = f.svc.CreateTask(ctx, ngo, TaskInput{Title: "orphan"})
	requireKind(t, err, KindNotFound)
	assert.Zero(t, f.count(t, &models.Task{}, "ngo_id = ?", ngo.UserID))

	_, err = f.svc.SubmitProof(ctx, vol, task.ID, "https://proof.example.org/orphan")
	requireKind(t, err, KindNotFound)
	assert.Zero(t, f.count(t, &models.Submission{}))

	views, err := f.svc.NGOSubmissions(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestCallerMustStillHoldTokenRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ngo := f.user(t, "ngo", models.RoleNGO, verified)
	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", ngo.UserID).Update("role", models.RoleVolunteer).Error)

	_, err := f.svc.CreateTask(ctx, ngo, TaskInput{Title: "stale"})
	requireKind(t, err, KindNotFound)
	assert.Zero(t, f.count(t, &models.Task{}))
}
