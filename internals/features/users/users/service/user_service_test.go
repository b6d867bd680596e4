package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	formModel "counselling_backend/internals/features/counselling/forms/model"
	sessionModel "counselling_backend/internals/features/counselling/sessions/model"
	timeModel "counselling_backend/internals/features/counselling/times/model"
	notifModel "counselling_backend/internals/features/home/notifications/model"
	notifService "counselling_backend/internals/features/home/notifications/service"
	"counselling_backend/internals/features/users/users/model"
	"counselling_backend/internals/helpers/apperr"
	helperAuth "counselling_backend/internals/helpers/auth"
	"counselling_backend/internals/testutil"
)

func newService(t *testing.T) (*UserService, *notifService.Recorder, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	rec := notifService.NewRecorder()
	svc := NewUserService(db, rec)
	svc.HashCost = bcrypt.MinCost
	return svc, rec, db
}

func TestCreateCounsellorSeedsTimesAndMailsCredentials(t *testing.T) {
	svc, rec, db := newService(t)

	u, err := svc.Create(context.Background(), CreateUserInput{
		Name:            "Meera Iyer",
		Email:           " Meera.Iyer@School.test ",
		UserType:        model.UserTypeCounsellor,
		CounsellorTypes: []string{"Academic", "Career"},
	})
	require.NoError(t, err)
	assert.Equal(t, "meera.iyer@school.test", u.Email)
	assert.Equal(t, []string{"Academic", "Career"}, u.CounsellorTypes())

	var days int64
	require.NoError(t, db.Model(&timeModel.TimeModel{}).Where("time_user_id = ?", u.ID).Count(&days).Error)
	assert.Equal(t, int64(5), days)

	env, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, EventUserCreated, env.Event)
	require.Len(t, env.Mails, 1)
	assert.Equal(t, "New counsellor created", env.Mails[0].Subject)

	// the mailed password is the one that was hashed
	text := env.Mails[0].Text
	i := strings.Index(text, "Password: ")
	require.Positive(t, i)
	plain := strings.Fields(text[i+len("Password: "):])[0]
	assert.Len(t, plain, initialPasswordLength)
	assert.NoError(t, helperAuth.CheckPasswordHash(u.Password, plain))
}

func TestCreateValidation(t *testing.T) {
	svc, rec, _ := newService(t)
	ctx := context.Background()

	cases := []CreateUserInput{
		{Name: "", Email: "a@b.test", UserType: model.UserTypeCounsellor},
		{Name: "A", Email: "a@b.test", UserType: model.UserTypeAdmin},
		{Name: "A", Email: "a@b.test", UserType: model.UserTypeStudent},
	}
	for _, in := range cases {
		_, err := svc.Create(ctx, in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "%+v", in)
	}
	assert.Empty(t, rec.Envelopes())
}

func TestBulkCreateRejectsTakenEmail(t *testing.T) {
	svc, _, db := newService(t)
	testutil.CreateUser(t, db, model.UserTypeStudent, "Riya Patel")

	_, err := svc.BulkCreate(context.Background(), []CreateUserInput{
		{Name: "Kabir Singh", Email: "kabir.singh@school.test", UserType: model.UserTypeStudent, StudentReferenceCode: "GR-1"},
		{Name: "Riya Patel", Email: "riya.patel@school.test", UserType: model.UserTypeStudent, StudentReferenceCode: "GR-2"},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	var n int64
	require.NoError(t, db.Model(&model.UserModel{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestBulkCreateStudents(t *testing.T) {
	svc, rec, _ := newService(t)

	users, err := svc.BulkCreate(context.Background(), []CreateUserInput{
		{Name: "Kabir Singh", Email: "kabir@school.test", UserType: model.UserTypeStudent, StudentReferenceCode: "GR-1"},
		{Name: "Anya Das", Email: "anya@school.test", UserType: model.UserTypeStudent, StudentReferenceCode: "GR-2"},
	})
	require.NoError(t, err)
	require.Len(t, users, 2)

	env, _ := rec.Last()
	assert.Len(t, env.Mails, 2)

	found, err := svc.GetStudentByReference(context.Background(), "GR-2")
	require.NoError(t, err)
	assert.Equal(t, "Anya Das", found.Name)
}

func TestListSearchAndType(t *testing.T) {
	svc, _, db := newService(t)
	testutil.CreateCounsellor(t, db, "Asha Rao")
	testutil.CreateCounsellor(t, db, "Vikram Shah")
	testutil.CreateUser(t, db, model.UserTypeStudent, "Ashwin Kumar")

	users, total, err := svc.List(context.Background(), UserFilter{Search: "ash"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)

	users, total, err = svc.List(context.Background(), UserFilter{Type: "counsellor", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 1)
}

func TestCounsellorsLookup(t *testing.T) {
	svc, _, db := newService(t)
	asha := testutil.CreateCounsellor(t, db, "Asha Rao")
	vikram := testutil.CreateCounsellor(t, db, "Vikram Shah")
	vikram.SetCounsellorTypes([]string{"Career"})
	require.NoError(t, db.Model(&vikram).Update("counsellor_type", vikram.CounsellorType).Error)

	rows, err := svc.Counsellors(context.Background(), "", asha.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, vikram.ID, rows[0].ID)

	rows, err = svc.Counsellors(context.Background(), "career", uuid.Nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, vikram.ID, rows[0].ID)

	_, err = svc.Counsellors(context.Background(), "Sports", uuid.Nil)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateUser(t *testing.T) {
	svc, _, db := newService(t)
	u := testutil.CreateUser(t, db, model.UserTypeStudent, "Riya Patel")

	name := "Riya P."
	inactive := false
	got, err := svc.Update(context.Background(), u.ID, UpdateUserInput{Name: &name, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Riya P.", got.Name)
	assert.False(t, got.IsActive)

	_, err = svc.Update(context.Background(), uuid.New(), UpdateUserInput{Name: &name})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestBulkDeleteReportsMissingIDs(t *testing.T) {
	svc, _, db := newService(t)
	ctx := context.Background()

	counsellor := testutil.CreateCounsellor(t, db, "Asha Rao")
	student := testutil.CreateUser(t, db, model.UserTypeStudent, "Riya Patel")
	keep := testutil.CreateCounsellor(t, db, "Vikram Shah")

	form := testutil.CreateForm(t, db, formModel.RefereeStudent, "Riya Patel")
	require.NoError(t, db.Model(&form).Update("form_student_user_id", student.ID).Error)

	kase := sessionModel.CaseModel{CaseCode: "#CS_01", CaseFormID: form.FormID, CaseStatus: sessionModel.CaseStatusPending}
	require.NoError(t, db.Create(&kase).Error)
	sess := sessionModel.SessionModel{
		SessionCode:         "#CS_01/SC_01",
		SessionSeq:          1,
		SessionCaseID:       kase.CaseID,
		SessionFormID:       form.FormID,
		SessionCounsellorID: keep.ID,
		SessionDate:         testutil.Date(2025, time.March, 10),
		SessionStartTime:    "09:00",
		SessionEndTime:      "10:00",
		SessionStatus:       sessionModel.SessionStatusPending,
	}
	require.NoError(t, db.Create(&sess).Error)
	require.NoError(t, db.Create(&notifModel.NotificationModel{NotificationUserID: counsellor.ID, NotificationDetails: "hi"}).Error)

	missing := uuid.New()
	err := svc.BulkDelete(ctx, []uuid.UUID{counsellor.ID, missing, student.ID})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindPartialFailure))

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{missing.String()}, ae.FailedIDs)

	var users int64
	require.NoError(t, db.Model(&model.UserModel{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)

	var live int64
	require.NoError(t, db.Model(&sessionModel.SessionModel{}).Count(&live).Error)
	assert.Zero(t, live, "session raised through the deleted student's form is soft-deleted")
	require.NoError(t, db.Model(&sessionModel.CaseModel{}).Count(&live).Error)
	assert.Zero(t, live)
	require.NoError(t, db.Model(&notifModel.NotificationModel{}).Count(&live).Error)
	assert.Zero(t, live)
}

func TestBulkDeleteEmpty(t *testing.T) {
	svc, _, _ := newService(t)
	err := svc.BulkDelete(context.Background(), nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
